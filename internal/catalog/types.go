package catalog

// Kind distinguishes the two control variants a service can render as.
type Kind int

const (
	// KindToggle is an independent on/off choice (checkbox semantics).
	KindToggle Kind = iota
	// KindExclusive is one member of a single-choice cluster (radio semantics).
	KindExclusive
)

func (k Kind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindExclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Service is one selectable line item of the booking form.
type Service struct {
	// ID is the position of the service in the catalog and the identifier
	// of its rendered control.
	ID int `yaml:"id" validate:"gte=0"`

	// Name is the label shown next to the control.
	Name string `yaml:"name" validate:"required"`

	// Cost in whole currency units. Zero for services that only gate others.
	Cost int `yaml:"cost" validate:"gte=0"`

	// Dependencies lists prerequisite service ids. Selecting any one of them
	// is enough to make this service visible.
	Dependencies []int `yaml:"depends_on"`

	// Section is the key of the host container the control renders into.
	Section string `yaml:"section" validate:"required"`

	// Group is the exclusivity tag. Services sharing a non-empty tag form a
	// single-choice cluster.
	Group string `yaml:"group"`
}

// Kind reports which control variant the service renders as.
func (s Service) Kind() Kind {
	if s.Group != "" {
		return KindExclusive
	}
	return KindToggle
}

// IsRoot reports whether the service has no prerequisites.
func (s Service) IsRoot() bool {
	return len(s.Dependencies) == 0
}

// DependsOn reports whether id is one of the service's prerequisites.
func (s Service) DependsOn(id int) bool {
	for _, dep := range s.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// SectionDef declares one host container of the form.
type SectionDef struct {
	Key   string `yaml:"key" validate:"required"`
	Title string `yaml:"title"`
}

// Dangling records a dependency that points outside the catalog.
type Dangling struct {
	ServiceID    int
	DependencyID int
}
