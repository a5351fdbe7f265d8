package ui

// StartupStage enumerates the high-level phases of application initialization.
type StartupStage int

const (
	StartupStageInit StartupStage = iota
	StartupStageLoadingDirectory
	StartupStageBuildingChart
	StartupStageReady
)

// String names the stage for logs.
func (s StartupStage) String() string {
	switch s {
	case StartupStageInit:
		return "init"
	case StartupStageLoadingDirectory:
		return "loading-directory"
	case StartupStageBuildingChart:
		return "building-chart"
	case StartupStageReady:
		return "ready"
	default:
		return "unknown"
	}
}

// StartupReporter receives progress notifications during UI initialization.
// Implementations should be safe for concurrent use.
type StartupReporter interface {
	Stage(stage StartupStage, detail string)
}

// StartupReporterFunc adapts a function to the StartupReporter interface.
type StartupReporterFunc func(stage StartupStage, detail string)

// Stage implements StartupReporter.
func (f StartupReporterFunc) Stage(stage StartupStage, detail string) {
	if f == nil {
		return
	}
	f(stage, detail)
}
