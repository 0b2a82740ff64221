// Package pipeline orchestrates the panel normalization run as an ordered
// sequence of steps sharing one RunState. Steps execute strictly
// sequentially: a step starts only after the previous step has fully
// completed, and the first failure aborts the run with no partial output.
//
// Each step implements the Step interface (ID, Name, Validate, Execute) and
// owns the table it writes onto the state; later steps read but never mutate
// earlier tables. The Manager drives execution, tagging every log line and
// span with the run's uuid, and the optional Tracer records per-run and
// per-step OpenTelemetry spans and metrics.
package pipeline
