package slides

// Role is a slide's transient navigation membership. Once a machine is
// initialized, exactly one slide is current, at most one is previous and
// at most one is next; every other slide holds no role.
type Role int

const (
	RoleNone Role = iota
	RolePrevious
	RoleCurrent
	RoleNext
)

func (r Role) String() string {
	switch r {
	case RolePrevious:
		return "previous"
	case RoleCurrent:
		return "current"
	case RoleNext:
		return "next"
	}
	return "none"
}

// EventType enumerates the navigation inputs a machine reacts to.
type EventType int

const (
	EventLoad EventType = iota
	EventKeydown
	EventClick
	EventSwipe
	EventFetchComplete
	EventHashChange
)

// SwipeDirection is the direction of a swipe gesture.
type SwipeDirection int

const (
	SwipeLeft SwipeDirection = iota
	SwipeRight
)

// Event is a single navigation input. Fields beyond Type are set
// per-event: Key for keydown, X/Y for click, Direction for swipe,
// Fragment for hashchange.
type Event struct {
	Type      EventType
	Key       int
	X, Y      float64
	Direction SwipeDirection
	Fragment  string
}

// Surface is where navigation side effects land: role class toggling and
// re-scrolling the viewport to the current slide.
type Surface interface {
	Size() (width, height float64)
	SetRole(sectionID string, role Role)
	ScrollTo(sectionID string)
}

// History is the durable pointer to the current slide: the URL fragment.
// Advance and retreat push a new fragment rather than replacing it, so
// browser back/forward navigation walks the deck.
type History interface {
	PushFragment(fragment string)
	Fragment() string
}

// NavConfig carries the configurable input bindings.
type NavConfig struct {
	AdvanceKey  int    `yaml:"advanceKey"`
	RetreatKey  int    `yaml:"retreatKey"`
	AdvanceZone string `yaml:"advanceZone"`
	RetreatZone string `yaml:"retreatZone"`
}

const (
	defaultAdvanceKey  = 34 // page down
	defaultRetreatKey  = 33 // page up
	defaultAdvanceZone = "x > 90%"
	defaultRetreatZone = "x < 10%"
)

func (c NavConfig) withDefaults() NavConfig {
	if c.AdvanceKey == 0 {
		c.AdvanceKey = defaultAdvanceKey
	}
	if c.RetreatKey == 0 {
		c.RetreatKey = defaultRetreatKey
	}
	if c.AdvanceZone == "" {
		c.AdvanceZone = defaultAdvanceZone
	}
	if c.RetreatZone == "" {
		c.RetreatZone = defaultRetreatZone
	}
	return c
}

// Machine owns the navigation cursor for one deck. It is not safe for
// concurrent use; callers feed it events one at a time, mirroring the
// sequential event delivery of the environment it models.
type Machine struct {
	slides  []*Slide
	surface Surface
	history History
	cfg     NavConfig

	advanceZone Condition
	retreatZone Condition

	current int // index into slides, -1 until initialized
}

// NewMachine builds a navigation machine over slides. Click-zone
// conditions are parsed here; a bad condition is a fatal configuration
// error, raised at setup time rather than at click time.
func NewMachine(slides []*Slide, surface Surface, history History, cfg NavConfig) (*Machine, error) {
	cfg = cfg.withDefaults()

	advance, err := ParseCondition(cfg.AdvanceZone)
	if err != nil {
		return nil, err
	}
	retreat, err := ParseCondition(cfg.RetreatZone)
	if err != nil {
		return nil, err
	}

	return &Machine{
		slides:      slides,
		surface:     surface,
		history:     history,
		cfg:         cfg,
		advanceZone: advance,
		retreatZone: retreat,
		current:     -1,
	}, nil
}

// Current returns the current slide, or nil before initialization or on
// an empty deck.
func (m *Machine) Current() *Slide {
	if m.current < 0 || m.current >= len(m.slides) {
		return nil
	}
	return m.slides[m.current]
}

// Handle processes one navigation input. Inputs arriving before the load
// or fetchComplete event are ignored; rendering always finishes before
// input listeners attach, so this only guards the theoretical case.
func (m *Machine) Handle(ev Event) {
	switch ev.Type {
	case EventLoad, EventFetchComplete:
		m.initialize()
		return
	}

	if m.current < 0 {
		return
	}

	switch ev.Type {
	case EventKeydown:
		switch ev.Key {
		case m.cfg.AdvanceKey:
			m.Advance()
		case m.cfg.RetreatKey:
			m.Retreat()
		}
	case EventClick:
		width, height := m.surface.Size()
		switch {
		case m.advanceZone.Match(ev.X, ev.Y, width, height):
			m.Advance()
		case m.retreatZone.Match(ev.X, ev.Y, width, height):
			m.Retreat()
		}
	case EventSwipe:
		if ev.Direction == SwipeLeft {
			m.Advance()
		} else {
			m.Retreat()
		}
	case EventHashChange:
		m.Jump(ev.Fragment)
	}
}

// initialize resolves the history fragment against the deck, falling back
// to the first slide, and applies the initial roles.
func (m *Machine) initialize() {
	if len(m.slides) == 0 {
		return
	}
	target := 0
	if i := m.indexOf(m.history.Fragment()); i >= 0 {
		target = i
	}
	old := m.current
	m.current = target
	m.applyRoles(old)
}

// Advance moves the cursor forward one slide. At the end of the deck it
// is a silent no-op.
func (m *Machine) Advance() {
	if m.current < 0 || m.current+1 >= len(m.slides) {
		return
	}
	m.shift(m.current + 1)
}

// Retreat moves the cursor back one slide. At the start of the deck it is
// a silent no-op.
func (m *Machine) Retreat() {
	if m.current <= 0 {
		return
	}
	m.shift(m.current - 1)
}

func (m *Machine) shift(target int) {
	old := m.current
	m.current = target
	m.applyRoles(old)
	m.history.PushFragment(m.slides[target].SectionID)
	// Re-align the viewport; narrow viewports can be left partially
	// scrolled between slides after a transition.
	m.surface.ScrollTo(m.slides[target].SectionID)
}

// Jump recomputes the cursor from a fragment identifier, without
// requiring the target to be adjacent. Driven by external hash changes
// (back/forward navigation), so it does not push history itself. An
// unknown fragment leaves the cursor where it is.
func (m *Machine) Jump(fragment string) {
	target := m.indexOf(fragment)
	if target < 0 || target == m.current {
		return
	}
	old := m.current
	m.current = target
	m.applyRoles(old)
	m.surface.ScrollTo(m.slides[target].SectionID)
}

func (m *Machine) indexOf(fragment string) int {
	for i, s := range m.slides {
		if s.SectionID == fragment {
			return i
		}
	}
	return -1
}

// applyRoles clears the roles around the old cursor position and marks
// previous/current/next around the new one.
func (m *Machine) applyRoles(old int) {
	if old >= 0 {
		for i := old - 1; i <= old+1; i++ {
			if i >= 0 && i < len(m.slides) {
				m.surface.SetRole(m.slides[i].SectionID, RoleNone)
			}
		}
	}
	if m.current > 0 {
		m.surface.SetRole(m.slides[m.current-1].SectionID, RolePrevious)
	}
	m.surface.SetRole(m.slides[m.current].SectionID, RoleCurrent)
	if m.current+1 < len(m.slides) {
		m.surface.SetRole(m.slides[m.current+1].SectionID, RoleNext)
	}
}
