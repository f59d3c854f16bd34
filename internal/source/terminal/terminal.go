// Package terminal is a tcell-backed key event source.
//
// It fills the OS-keystroke-source boundary for the terminal demo and for
// integration testing: a raw-mode screen is polled for key events, each one
// converted to the engine's event shape and pushed to the consumer channel.
// Terminals report resolved characters rather than shift transitions, so
// conversion rebuilds the matcher's contract: uppercase letters become
// base-lowercase events with the shift bit set, shifted symbols pass
// through as themselves.
package terminal

import (
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snipforge/internal/input/key"
)

// Source polls a tcell screen and emits key events.
type Source struct {
	screen tcell.Screen
	events chan key.Event

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewSource creates a source backed by a new tcell screen.
func NewSource() (*Source, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newSource(screen), nil
}

// NewSimulationSource creates a source over a tcell simulation screen, for
// tests.
func NewSimulationSource() (*Source, tcell.SimulationScreen) {
	sim := tcell.NewSimulationScreen("")
	return newSource(sim), sim
}

func newSource(screen tcell.Screen) *Source {
	return &Source{
		screen: screen,
		events: make(chan key.Event, 64),
		done:   make(chan struct{}),
	}
}

// Start initializes the screen and begins polling.
func (s *Source) Start() error {
	if err := s.screen.Init(); err != nil {
		return err
	}
	s.wg.Add(1)
	go s.poll()
	return nil
}

// Events delivers converted key events.
func (s *Source) Events() <-chan key.Event {
	return s.events
}

// Screen exposes the underlying screen so the shell can draw on it.
func (s *Source) Screen() tcell.Screen {
	return s.screen
}

// Stop tears down the screen and stops polling.
func (s *Source) Stop() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.screen.Fini() // unblocks PollEvent
		s.wg.Wait()
		close(s.events)
	})
}

// poll converts tcell events until the screen is finalized.
func (s *Source) poll() {
	defer s.wg.Done()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		kev, ok := convertEvent(ev)
		if !ok {
			continue
		}
		select {
		case s.events <- kev:
		case <-s.done:
			return
		}
	}
}

// convertEvent maps a tcell event to an engine key event.
func convertEvent(ev tcell.Event) (key.Event, bool) {
	e, ok := ev.(*tcell.EventKey)
	if !ok {
		return key.Event{}, false
	}

	mods := convertMods(e.Modifiers())

	switch e.Key() {
	case tcell.KeyRune:
		return runeEvent(e.Rune(), mods), true

	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods), true
	}

	if r := e.Rune(); r != 0 && unicode.IsPrint(r) {
		return runeEvent(r, mods), true
	}
	return key.Event{}, false
}

// runeEvent rebuilds the matcher's event contract from a resolved terminal
// character: rune events carry the unshifted base, so uppercase letters
// become lowercase-plus-shift, and already-shifted symbols pass through
// with the shift bit cleared.
func runeEvent(r rune, mods key.Modifier) key.Event {
	if r == ' ' {
		return key.NewSpecialEvent(key.KeySpace, mods)
	}
	if unicode.IsUpper(r) {
		return key.NewRuneEvent(unicode.ToLower(r), mods.With(key.ModShift))
	}
	return key.NewRuneEvent(r, mods.Without(key.ModShift))
}

// convertMods maps tcell modifier masks to engine modifiers.
func convertMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
