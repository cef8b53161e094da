// Package tui is the terminal surface for practice and review sessions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/mistakebook/internal/images"
	"github.com/example/mistakebook/internal/practice"
	"github.com/example/mistakebook/internal/stats"
)

// advancedMsg carries the snapshot after a timed advance.
type advancedMsg practice.Snapshot

// imageSavedMsg reports where the current image was written.
type imageSavedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model of one session.
type Model struct {
	ctx      context.Context
	session  *practice.Session
	snap     practice.Snapshot
	progress progress.Model
	imageDir string
	status   string
	quitting bool
}

// NewModel creates a model over an open session. Images opened with the
// 'o' key are written to imageDir.
func NewModel(ctx context.Context, s *practice.Session, imageDir string) Model {
	return Model{
		ctx:     ctx,
		session: s,
		snap:    s.Snapshot(),
		progress: progress.New(
			progress.WithGradient("#00ffff", "#00ff00"),
			progress.WithWidth(40),
		),
		imageDir: imageDir,
	}
}

// Run shows the session until the user quits or it completes and the user
// leaves. The session is closed on return.
func Run(ctx context.Context, s *practice.Session, imageDir string) error {
	defer s.Close()

	p := tea.NewProgram(NewModel(ctx, s, imageDir), tea.WithContext(ctx))
	s.OnAdvance(func(snap practice.Snapshot) { p.Send(advancedMsg(snap)) })

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run session: %w", err)
	}
	return nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case advancedMsg:
		m.snap = practice.Snapshot(msg)
		m.status = ""
	case imageSavedMsg:
		if msg.err != nil {
			m.status = "could not open image: " + msg.err.Error()
		} else {
			m.status = "image saved to " + msg.path
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		m.session.Close()
		return m, tea.Quit
	case " ":
		err = m.session.Toggle()
	case "y":
		err = m.session.Judge(m.ctx, true)
	case "n":
		err = m.session.Judge(m.ctx, false)
	case "left", "h":
		err = m.session.Previous()
	case "right", "l":
		err = m.session.Next()
	case "enter":
		err = m.session.Advance()
	case "o":
		return m, m.saveImage()
	default:
		return m, nil
	}

	m.snap = m.session.Snapshot()
	m.status = describe(err)
	return m, nil
}

// saveImage writes the image currently shown to imageDir.
func (m Model) saveImage() tea.Cmd {
	if m.snap.State == practice.Complete {
		return nil
	}
	p := m.snap.Item
	image, side := p.QuestionImage, "question"
	if m.snap.State != practice.Browsing {
		image, side = p.AnswerImage, "answer"
	}
	dir := m.imageDir
	return func() tea.Msg {
		mime, data, err := images.Decode(image)
		if err != nil {
			return imageSavedMsg{err: err}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return imageSavedMsg{err: err}
		}
		path := filepath.Join(dir, p.ID+"-"+side+images.Extension(mime))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return imageSavedMsg{err: err}
		}
		return imageSavedMsg{path: path}
	}
}

func describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, practice.ErrNotRevealed):
		return "reveal the answer before judging"
	case errors.Is(err, practice.ErrAlreadyAnswered):
		return "already recorded"
	case errors.Is(err, practice.ErrJudgementPending):
		return "press enter to continue"
	case errors.Is(err, practice.ErrNotRecorded):
		return "judge the answer first"
	case errors.Is(err, practice.ErrNoPrevious):
		return "this is the first problem"
	case errors.Is(err, practice.ErrNoNext):
		return "this is the last problem"
	case errors.Is(err, practice.ErrSessionComplete), errors.Is(err, practice.ErrSessionClosed):
		return "session finished"
	default:
		return err.Error()
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	kind := "Practice"
	if m.snap.Kind == practice.KindReview {
		kind = "Review"
	}
	b.WriteString(headerStyle.Render("🀄 " + kind))
	b.WriteString("\n\n")

	if m.snap.State == practice.Complete {
		b.WriteString(m.completeView())
	} else {
		b.WriteString(m.itemView())
	}

	if m.status != "" {
		b.WriteString("\n" + dimStyle.Render(m.status))
	}
	b.WriteString("\n" + m.footer())
	return containerStyle.Render(b.String()) + "\n"
}

func (m Model) itemView() string {
	var b strings.Builder
	p := m.snap.Item

	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(p.Title), categoryStyle.Render(p.Category))
	fmt.Fprintf(&b, "%s %s %s\n\n",
		labelStyle.Render("accuracy"),
		Accuracy(p.Stats.Accuracy),
		dimStyle.Render(fmt.Sprintf("(%d/%d)", p.Stats.Correct, p.Stats.Attempts)))

	switch m.snap.State {
	case practice.Browsing:
		b.WriteString(labelStyle.Render("Question") + dimStyle.Render(" · press o to open the image") + "\n")
	case practice.Revealed:
		b.WriteString(labelStyle.Render("Answer") + dimStyle.Render(" · press o to open the image") + "\n")
	case practice.Recorded:
		b.WriteString(recordedStyle.Render("Recorded") + "\n")
	}

	fmt.Fprintf(&b, "\n%s %s\n",
		m.progress.ViewAs(float64(m.snap.Progress)/100),
		dimStyle.Render(fmt.Sprintf("%d/%d", m.snap.Index+1, m.snap.Total)))
	return b.String()
}

func (m Model) completeView() string {
	switch {
	case m.snap.Total == 0 && m.snap.Kind == practice.KindReview:
		return goodStyle.Render("Nothing to review") + "\n" +
			dimStyle.Render("Every practiced problem is at 80% or better.") + "\n"
	case m.snap.Total == 0:
		return dimStyle.Render("No problems to practice.") + "\n"
	}

	accuracy := stats.Accuracy(m.snap.Correct, m.snap.Answered)
	return fmt.Sprintf("%s\n%s %d  %s %d  %s %s\n",
		titleStyle.Render("Session complete"),
		labelStyle.Render("answered"), m.snap.Answered,
		labelStyle.Render("correct"), m.snap.Correct,
		labelStyle.Render("accuracy"), Accuracy(accuracy))
}

func (m Model) footer() string {
	var keys []string
	switch m.snap.State {
	case practice.Browsing:
		keys = []string{footerKey("space", "answer"), footerKey("←/→", "move")}
	case practice.Revealed:
		keys = []string{footerKey("y", "correct"), footerKey("n", "incorrect"), footerKey("space", "question")}
	case practice.Recorded:
		keys = []string{footerKey("enter", "continue")}
	}
	keys = append(keys, footerKey("q", "quit"))
	return strings.Join(keys, "  ")
}
