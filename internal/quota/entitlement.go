package quota

// Kind tells whether an entitlement is metered.
type Kind int

const (
	Limited Kind = iota
	Unlimited
)

func (k Kind) String() string {
	if k == Unlimited {
		return "unlimited"
	}
	return "limited"
}

// Entitlement is the outcome of resolving a user's access to a feature.
type Entitlement struct {
	Kind    Kind
	Feature Feature
	Used    int
	Limit   int
}

// Remaining is the number of free calls left. It is -1 for Unlimited.
func (e Entitlement) Remaining() int {
	if e.Kind == Unlimited {
		return -1
	}
	if r := e.Limit - e.Used; r > 0 {
		return r
	}
	return 0
}

// Allowed reports whether the call may proceed.
func (e Entitlement) Allowed() bool {
	return e.Kind == Unlimited || e.Remaining() > 0
}

// Metered reports whether a successful call must be recorded.
func (e Entitlement) Metered() bool {
	return e.Kind == Limited
}
