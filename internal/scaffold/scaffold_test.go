package scaffold_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ercasta/hielements/internal/scaffold"
)

func TestGenerateNamesFilesAfterProject(t *testing.T) {
	t.Parallel()
	files := scaffold.Generate("orders")

	assert.Equal(t, "orders.hie", files.HieFileName)
	assert.Equal(t, "hielements.toml", files.ConfigName)
	assert.Equal(t, "USAGE_GUIDE.md", files.GuideName)
}

func TestGenerateHieContentReferencesProjectName(t *testing.T) {
	t.Parallel()
	files := scaffold.Generate("orders")

	assert.True(t, strings.Contains(files.HieContent, "element orders"))
	assert.True(t, strings.Contains(files.HieContent, "import files"))
	assert.True(t, strings.Contains(files.HieContent, "files.exists(root, 'README.md')"))
}

func TestGenerateConfigContentDocumentsLibraryTable(t *testing.T) {
	t.Parallel()
	files := scaffold.Generate("orders")

	assert.True(t, strings.Contains(files.ConfigContent, "[libraries]"))
}

func TestGenerateGuideContentCoversCoreCommands(t *testing.T) {
	t.Parallel()
	files := scaffold.Generate("orders")

	assert.True(t, strings.Contains(files.GuideContent, "hielements check"))
	assert.True(t, strings.Contains(files.GuideContent, "hielements run"))
	assert.True(t, strings.Contains(files.GuideContent, "hielements doc"))
}
