// Package quota decides whether a user may call a metered tool and records
// the calls that count against the free tier.
package quota

import "errors"

// Feature identifies a metered tool. The string value is the feature_type
// column in user_feature_usage.
type Feature string

const (
	FeatureConversation Feature = "conversation"
	FeatureResearch     Feature = "research"
	FeatureStudy        Feature = "study"
	FeatureIdeas        Feature = "idea"
	FeaturePresentation Feature = "presentation"
	FeatureImage        Feature = "image"
	FeatureVoice        Feature = "voice"
	FeatureVideo        Feature = "video"
	FeatureNetwork      Feature = "network"
)

// ErrNoLimitConfigured is returned when a feature has no free limit entry.
var ErrNoLimitConfigured = errors.New("quota: no limit configured for feature")

// AllFeatures lists every metered feature in a stable order.
func AllFeatures() []Feature {
	return []Feature{
		FeatureConversation,
		FeatureResearch,
		FeatureStudy,
		FeatureIdeas,
		FeaturePresentation,
		FeatureImage,
		FeatureVoice,
		FeatureVideo,
		FeatureNetwork,
	}
}

// Limits maps a feature to its lifetime free-tier allowance.
type Limits map[Feature]int

// DefaultLimits returns the built-in free allowances. Video is pro only.
func DefaultLimits() Limits {
	return Limits{
		FeatureConversation: 5,
		FeatureResearch:     5,
		FeatureStudy:        5,
		FeatureIdeas:        5,
		FeaturePresentation: 5,
		FeatureImage:        20,
		FeatureVoice:        20,
		FeatureNetwork:      20,
		FeatureVideo:        0,
	}
}

// Limit returns the allowance for f and whether one is configured.
func (l Limits) Limit(f Feature) (int, bool) {
	n, ok := l[f]
	return n, ok
}

// With returns a copy of l with overrides applied on top.
func (l Limits) With(overrides Limits) Limits {
	out := make(Limits, len(l)+len(overrides))
	for f, n := range l {
		out[f] = n
	}
	for f, n := range overrides {
		out[f] = n
	}
	return out
}
