package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir())

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal("files/users", config.UsersFilepath)
	req.Equal("files/convs", config.ConversationsFilepath)
	req.Equal("files/msgs", config.MessagesFilepath)
	req.Equal("files/rels", config.RelationshipsFilepath)
	req.Equal("127.0.0.1", config.Host)
	req.Equal(8080, config.Port)
	req.Equal(1024, config.ConnectionBufferSize)
	req.Equal(200*time.Millisecond, config.RestartInterval)
	req.Empty(config.ArchiveFilepath)
	req.Nil(config.LimitMessages)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("ARCHIVE_FILEPATH", "/tmp/archive")
	t.Setenv("LIMIT_MESSAGES", "20")

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal(9090, config.Port)
	req.Equal("/tmp/archive", config.ArchiveFilepath)
	req.Equal(20, *config.LimitMessages)
}

func TestConfig_Validate(t *testing.T) {
	t.Setenv("PORT", "70000")
	t.Chdir(t.TempDir())

	_, err := LoadConfig()

	require.Error(t, err)
}
