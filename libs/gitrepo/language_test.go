package gitrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"cmd/api/main.go", "go"},
		{"scripts/setup.py", "python"},
		{"web/App.TSX", "typescript"},
		{"include/util.h", "c"},
		{"README.md", "markdown"},
		{"Makefile", ""},
		{"image.png", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.path), tt.path)
	}
}

func TestIsIndexableFile(t *testing.T) {
	t.Parallel()

	assert.True(t, isIndexableFile("main.go"))
	assert.True(t, isIndexableFile("docs/guide.md"))
	assert.True(t, isIndexableFile("schema.SQL"))
	assert.False(t, isIndexableFile("binary.exe"))
	assert.False(t, isIndexableFile("photo.jpg"))
	assert.False(t, isIndexableFile("Makefile"))
}

func TestIsSkippedDir(t *testing.T) {
	t.Parallel()

	assert.True(t, isSkippedDir("node_modules"))
	assert.True(t, isSkippedDir("vendor"))
	assert.False(t, isSkippedDir("src"))
	assert.False(t, isSkippedDir("internal"))
}

func TestIsCommitSHA(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCommitSHA("0123456789abcdef0123456789abcdef01234567"))
	assert.True(t, IsCommitSHA("0123456789ABCDEF0123456789ABCDEF01234567"))
	assert.False(t, IsCommitSHA("main"))
	assert.False(t, IsCommitSHA("0123456789abcdef"))
	assert.False(t, IsCommitSHA("012345678gabcdef0123456789abcdef01234567"))
}

func TestCloneURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://github.com/octocat/hello.git", CloneURL("octocat", "hello"))
}

func TestTokenAuth(t *testing.T) {
	t.Parallel()

	assert.Nil(t, TokenAuth(""))
	assert.NotNil(t, TokenAuth("ghp_token"))
}
