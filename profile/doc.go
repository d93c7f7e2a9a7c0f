// Package profile wires block measurement into CLI applications.
//
// A [Profiler] opens the block report destination, optionally runs a
// runtime/pprof CPU profile for the whole command (plus a heap snapshot on
// exit), and hands out
// [probe.Session]s whose reports it writes as text or YAML when each session
// ends. With --page-faults each report also carries the process page-fault
// delta, read through gopsutil.
//
// Typical usage creates a [Config], registers flags, then wraps command
// execution:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	p, err := cfg.NewProfiler()
//	err = p.Start()
//	defer p.Stop()
//
//	s := p.NewSession()
//	work(s)
//	err = p.EndSession(s)
package profile
