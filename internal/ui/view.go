package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"jpaudio/internal/model"
	"jpaudio/internal/progress"
)

func (m Model) viewHeader() string {
	done, total := 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done++
		}
	}
	title := m.styles.Title.Render("jpaudio · " + m.dir)
	sub := m.styles.Subtitle.Render(fmt.Sprintf("%s · files: %d/%d done · q: quit", m.notice, done, total))
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	if len(m.jobOrder) == 0 {
		return m.styles.Faint.Render("No video files found") + "\n"
	}
	var b strings.Builder
	for _, id := range m.jobOrder {
		b.WriteString(m.viewJob(m.jobs[id]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJob(js *jobState) string {
	stageStyle := m.styles.JobInfo
	switch js.stage {
	case progress.StageProbing:
		stageStyle = m.styles.StageProbe
	case progress.StageExtracting:
		stageStyle = m.styles.StageExtract
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageSkipped:
		stageStyle = m.styles.Warning
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	nameWidth := 48
	if m.width > 20 && m.width-20 < nameWidth {
		nameWidth = m.width - 20
	}
	left := m.styles.JobTitle.Render(truncate(filepath.Base(js.file.InputPath), nameWidth))
	stage := stageStyle.Render(string(js.stage))

	var right string
	switch {
	case js.percent >= 0 && js.percent <= 100:
		right = fmt.Sprintf("%s %5.1f%%", js.bar.ViewAs(js.percent/100.0), js.percent)
		if js.speed != "" {
			right += " " + m.styles.Faint.Render(js.speed)
		}
	case js.done && js.result.Status == model.StatusFailed:
		right = m.styles.Error.Render("✗ error")
	case js.done && js.result.Status == model.StatusSkipped:
		right = m.styles.Warning.Render("– skipped")
	case js.done:
		right = m.styles.Success.Render("✓ done")
	default:
		right = m.styles.Spinner.Render(m.spinner.View()) + " " + m.styles.Faint.Render("waiting")
	}

	line2 := m.styles.JobInfo.Render(js.status)
	if !js.done && js.stage == progress.StageExtracting {
		if l := js.lastLog(); l != "" {
			line2 += "\n" + m.styles.Faint.Render(truncate(l, 72))
		}
	}
	return m.styles.Box.Render(left + "  " + stage + "\n" + right + "\n" + line2)
}

func (m Model) viewSummary() string {
	if !m.finished {
		return ""
	}
	sum := model.Summary{Results: m.results}
	line := fmt.Sprintf("Extracted %d · skipped %d · failed %d", sum.Extracted(), sum.Skipped(), sum.Failed())
	if sum.Failed() > 0 {
		return m.styles.Error.Render(line) + "\n"
	}
	return m.styles.Success.Render(line) + "\n"
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
