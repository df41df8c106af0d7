package domain

// CompatStatus is the coarse compatibility classification shown next to a game.
type CompatStatus int

const (
	CompatUnknown CompatStatus = iota
	CompatNotCompatible
	CompatCompatible
	CompatGPUCompatible
)

func (s CompatStatus) String() string {
	switch s {
	case CompatNotCompatible:
		return "NOT_COMPATIBLE"
	case CompatCompatible:
		return "COMPATIBLE"
	case CompatGPUCompatible:
		return "GPU_COMPATIBLE"
	default:
		return "UNKNOWN"
	}
}

// CompatReport is the per-game payload returned by the remote compatibility service.
type CompatReport struct {
	GameName           string  `json:"gameName"`
	TotalPlayableCount int     `json:"totalPlayableCount"`
	GPUPlayableCount   int     `json:"gpuPlayableCount"`
	AvgRating          float64 `json:"avgRating"`
	HasBeenTried       bool    `json:"hasBeenTried"`
	IsNotWorking       bool    `json:"isNotWorking"`
}

// Status derives the display status. Evaluated in priority order:
// not-working, not-tried, gpu playable, platform playable.
func (r CompatReport) Status() CompatStatus {
	switch {
	case r.IsNotWorking:
		return CompatNotCompatible
	case !r.HasBeenTried:
		return CompatUnknown
	case r.GPUPlayableCount > 0:
		return CompatGPUCompatible
	case r.TotalPlayableCount > 0:
		return CompatCompatible
	default:
		return CompatUnknown
	}
}
