package theme

import (
	"strings"
	"testing"
	"time"

	"github.com/dori/projboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, th := range Available() {
		got, ok := ByName(th.Name)
		require.True(t, ok, th.Name)
		assert.Equal(t, th.Name, got.Name)
		assert.NotEmpty(t, got.Categories, th.Name)
	}

	_, ok := ByName("solarized")
	assert.False(t, ok)
}

func TestRenderBoard(t *testing.T) {
	styles := NewStyles(Default)
	projects := []model.Project{
		{ID: 3, Name: "Shed", Category: "Personal", Position: 1, Status: model.StatusStarted},
		{ID: 1, Name: "Bike", Category: "Personal", Position: 2},
	}

	out := styles.RenderBoard(projects, []string{"Personal", "Professional"})

	assert.Contains(t, out, "Personal")
	assert.Contains(t, out, "Professional")
	assert.Contains(t, out, "#3")
	assert.Less(t, strings.Index(out, "Shed"), strings.Index(out, "Bike"))
	assert.Less(t, strings.Index(out, "Bike"), strings.Index(out, "Professional"))
	assert.Contains(t, out, "nothing here yet")
}

func TestRenderDetails(t *testing.T) {
	styles := NewStyles(Gruvbox)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(49 * time.Hour)

	out := styles.RenderDetails(&model.Project{
		Name:           "Shed",
		Category:       "Personal",
		Status:         model.StatusCompleted,
		CreationTime:   start.Add(-time.Hour),
		StartTime:      &start,
		CompletionTime: &end,
	})

	assert.Contains(t, out, "Shed")
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "49h0m0s")
}

func TestCategoryWraps(t *testing.T) {
	styles := NewStyles(Nord)
	assert.Equal(t, styles.Category(0).GetForeground(), styles.Category(2).GetForeground())
	assert.Equal(t, styles.Category(0).GetForeground(), styles.Category(-1).GetForeground())
	assert.NotEqual(t, styles.Category(0).GetForeground(), styles.Category(1).GetForeground())
}
