// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/humanize/locale/fr"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/wneessen/birdseye/internal/animation"
)

const columnGap = "  "

// SegmentView wraps a planned segment with presentation-related fields.
type SegmentView struct {
	animation.Segment

	Heading   string
	Distance  string
	Rotation  string
	Traversal string
	Duration  string
}

// PlanView is the presentation of a full timeline plan.
type PlanView struct {
	Segments []SegmentView
	Distance string
	Duration string
}

// Presenter renders animation plans for humans.
type Presenter struct {
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
}

// New returns a Presenter that localizes labels with the given localizer and formats numbers
// for the given language.
func New(localizer *spreak.Localizer, tag language.Tag) *Presenter {
	collection := humanize.MustNew(humanize.WithLocale(de.New(), fr.New()))
	return &Presenter{
		localizer: localizer,
		humanizer: collection.CreateHumanizer(tag),
	}
}

// BuildPlan converts the planned segments into a PlanView.
func (p *Presenter) BuildPlan(segments []animation.Segment) PlanView {
	view := PlanView{Segments: make([]SegmentView, 0, len(segments))}
	var distance float64
	var duration time.Duration
	for _, seg := range segments {
		view.Segments = append(view.Segments, p.viewFromSegment(seg))
		distance += seg.Distance
		duration += seg.Duration()
	}
	view.Distance = p.meters(distance)
	view.Duration = durationFormat(duration)
	return view
}

// PlanTable renders the planned segments as aligned text table.
func (p *Presenter) PlanTable(segments []animation.Segment) string {
	view := p.BuildPlan(segments)

	header := make([]string, 0, len(columns))
	for _, col := range columns {
		header = append(header, p.loc(col))
	}
	rows := [][]string{header}
	for _, seg := range view.Segments {
		rows = append(rows, []string{
			fmt.Sprintf("%d", seg.Index+1),
			seg.From.String(),
			seg.To.String(),
			seg.Heading,
			seg.Distance,
			seg.Rotation,
			seg.Traversal,
		})
	}
	rows = append(rows, []string{p.loc("total"), "", "", "", view.Distance, "", view.Duration})

	widths := make([]int, len(columns))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	for i, row := range rows {
		sb.WriteString(renderRow(row, widths))
		if i == 0 || i == len(rows)-2 {
			sb.WriteString(renderRule(widths))
		}
	}
	return sb.String()
}

func (p *Presenter) viewFromSegment(seg animation.Segment) SegmentView {
	return SegmentView{
		Segment:   seg,
		Heading:   fmt.Sprintf("%s → %s", degreeFormat(seg.HeadingIn), degreeFormat(seg.HeadingOut)),
		Distance:  p.meters(seg.Distance),
		Rotation:  durationFormat(seg.RotationDuration),
		Traversal: durationFormat(seg.TraversalDuration),
		Duration:  durationFormat(seg.Duration()),
	}
}

func renderRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.Join(padded, columnGap) + "\n"
}

func renderRule(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	return strings.Join(parts, columnGap) + "\n"
}
