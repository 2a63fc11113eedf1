package server

import (
	"fmt"
	"html/template"
	"time"

	"github.com/dori/projboard/internal/model"
)

var timelineColors = []string{"#e19f42", "#4299e1"}

// Timeline is a one-year chart of completed projects ending now
type Timeline struct {
	Bars       []TimelineBar
	MonthLines []float64
}

// TimelineBar places one project on the timeline. All geometry is in
// percent of the timeline box.
type TimelineBar struct {
	Name     string
	Category string
	Color    string
	Left     float64
	Width    float64
	Top      float64
	Height   float64
}

// BuildTimeline lays out completed projects started within the year before
// now. Bars keep the input order, one row each.
func BuildTimeline(projects []model.Project, categories []string, now time.Time) Timeline {
	windowStart := now.AddDate(-1, 0, 0)
	span := now.Sub(windowStart)

	var visible []model.Project
	for _, p := range projects {
		if p.StartTime == nil || p.CompletionTime == nil {
			continue
		}
		if p.StartTime.Before(windowStart) {
			continue
		}
		visible = append(visible, p)
	}

	tl := Timeline{MonthLines: make([]float64, 12)}
	for i := range tl.MonthLines {
		tl.MonthLines[i] = float64(i+1) * 100 / 12
	}
	if len(visible) == 0 {
		return tl
	}

	height := 100 / float64(len(visible))
	for i, p := range visible {
		left := percentOf(p.StartTime.Sub(windowStart), span)
		width := percentOf(p.CompletionTime.Sub(*p.StartTime), span)
		if left+width > 100 {
			width = 100 - left
		}

		color := timelineColors[0]
		for ci, c := range categories {
			if c == p.Category {
				color = timelineColors[ci%len(timelineColors)]
				break
			}
		}

		tl.Bars = append(tl.Bars, TimelineBar{
			Name:     p.Name,
			Category: p.Category,
			Color:    color,
			Left:     left,
			Width:    width,
			Top:      float64(i) * height,
			Height:   height,
		})
	}
	return tl
}

func percentOf(d, span time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return float64(d) / float64(span) * 100
}

// barStyle renders the inline CSS for a bar. Colors come from timelineColors only.
func barStyle(b TimelineBar) template.CSS {
	return template.CSS(fmt.Sprintf("left: %.3f%%; width: %.3f%%; top: %.3f%%; height: %.3f%%; background-color: %s;",
		b.Left, b.Width, b.Top, b.Height, b.Color))
}
