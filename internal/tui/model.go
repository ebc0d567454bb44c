// Package tui implements the -tui dashboard: live per-strategy progress,
// runtime and host statistics, and the final comparison.
package tui

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mandelcalc/internal/bmp"
	"github.com/agbru/mandelcalc/internal/config"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/orchestration"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/sysmon"
)

const (
	tickInterval = 500 * time.Millisecond
	// statsPanelPercent is the share of the width given to the stats panel.
	statsPanelPercent = 40
	// narrowWidth stacks the panels vertically below this width.
	narrowWidth = 100
)

// ExecutionState is the part of the model tied to one run.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
	err        error
}

// Model is the root bubbletea model.
type Model struct {
	header     HeaderModel
	strategies StrategiesModel
	stats      StatsModel
	footer     FooterModel
	keymap     KeyMap

	ExecutionState

	parentCtx context.Context
	renderers []render.Strategy
	config    config.AppConfig
	opts      render.Options
	memory    *metrics.MemoryCollector
	ref       *programRef
	paused    bool
	width     int
	height    int
}

// NewModel creates the dashboard for one render configuration.
func NewModel(parentCtx context.Context, strategies []render.Strategy, cfg config.AppConfig, opts render.Options, version string) Model {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	keys := DefaultKeyMap()
	summary := fmt.Sprintf("%dx%d %s, %d iter, %d threads", cfg.Width, cfg.Height, cfg.Region, cfg.MaxIter, cfg.Threads)

	return Model{
		header:     NewHeaderModel(version, summary),
		strategies: NewStrategiesModel(names),
		stats:      NewStatsModel(),
		footer:     NewFooterModel(keys),
		keymap:     keys,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		renderers: strategies,
		config:    cfg,
		opts:      opts,
		memory:    metrics.NewMemoryCollector(),
		ref:       &programRef{},
	}
}

func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRenderCmd(m.ref, m.ctx, m.renderers, m.config, m.opts, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.strategies.SetProgress(msg)
		}
		return m, nil

	case ComparisonResultsMsg:
		m.strategies.SetResults(msg.Results)
		return m, nil

	case FinalResultMsg:
		m.strategies.SetResults([]orchestration.RenderResult{msg.Result})
		m.strategies.SetSelected(msg.Result.Name)
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.footer.SetFailed(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(m.memory), sampleSysStatsCmd(m.ctx), tickCmd())

	case MemStatsMsg:
		m.stats.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.stats.UpdateSysStats(msg)
		return m, nil

	case RenderCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		if msg.Err != nil {
			m.err = msg.Err
			m.footer.SetFailed(true)
		}
		m.strategies.SetSaved(msg.Saved)
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		if m.exitCode == apperrors.ExitSuccess {
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
		}
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.done, m.paused, m.err = false, false, nil
		m.exitCode = apperrors.ExitSuccess
		m.header.Reset()
		m.strategies.Reset()
		m.stats.Reset()
		m.footer.SetDone(false)
		m.footer.SetFailed(false)
		m.footer.SetPaused(false)
		return m, m.startCmds()
	}
	return m, nil
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	if m.width < narrowWidth {
		m.strategies.SetWidth(m.width)
		m.stats.SetWidth(m.width)
		return
	}
	statsWidth := m.width * statsPanelPercent / 100
	m.strategies.SetWidth(m.width - statsWidth)
	m.stats.SetWidth(statsWidth)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	var body string
	if m.width < narrowWidth {
		body = lipgloss.JoinVertical(lipgloss.Left, m.strategies.View(), m.stats.View())
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.strategies.View(), m.stats.View())
	}
	parts := []string{m.header.View(), body}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(" "+m.err.Error()))
	}
	parts = append(parts, m.footer.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ExitCode returns the exit status of the finished run.
func (m Model) ExitCode() int { return m.exitCode }

// Run starts the dashboard, renders with the given strategies, writes the
// fastest result to cfg.OutputFile and returns the exit code.
func Run(ctx context.Context, strategies []render.Strategy, cfg config.AppConfig, opts render.Options, version string) int {
	initTUIStyles()

	model := NewModel(ctx, strategies, cfg, opts, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := final.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startRenderCmd runs every strategy and writes the selected result.
func startRenderCmd(ref *programRef, ctx context.Context, strategies []render.Strategy, cfg config.AppConfig, opts render.Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		presenter := &TUIResultPresenter{ref: ref}
		results := orchestration.ExecuteRenders(ctx, strategies, opts, &TUIProgressReporter{ref: ref}, io.Discard)
		presOpts := orchestration.PresentationOptions{
			Width:   opts.Width,
			Height:  opts.Height,
			Threads: opts.Threads,
			Verbose: cfg.Verbose,
			Details: cfg.Details,
		}
		msg := RenderCompleteMsg{Generation: gen}
		msg.ExitCode = orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, io.Discard)
		if msg.ExitCode != apperrors.ExitSuccess {
			return msg
		}
		best := orchestration.BestResult(results)
		if err := bmp.WriteFile(cfg.OutputFile, best.Buffer); err != nil {
			msg.ExitCode = apperrors.ExitErrorGeneric
			msg.Err = err
			return msg
		}
		msg.Saved = cfg.OutputFile
		return msg
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{MemorySnapshot: mc.Snapshot(), NumGoroutine: runtime.NumGoroutine()}
	}
}

func sampleSysStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample(ctx)
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
