package domain

// LogLevel is the heading depth of a build log entry.
type LogLevel int

const (
	// LogBuild heads a whole build.
	LogBuild LogLevel = iota + 1
	// LogModule heads one module or generated file.
	LogModule
	// LogStep heads one step of a module.
	LogStep
)

// LogEntry is one heading in the build log, tagged with the topic it belongs to.
type LogEntry struct {
	Topic uint64
	Level LogLevel
	Title string
	// Lang names the source block language of Body, e.g. "sh". Empty means plain text.
	Lang       string
	Body       string
	Properties map[string]string
}
