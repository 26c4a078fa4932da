// Package log provides a small leveled logging facade for the agent.
//
// The Logger interface has four methods (Debug, Info, Warn, Error); the
// default backend is kataras/golog. A package-level logger lets the
// runtime, gateway and REPL log without threading a logger through
// every constructor:
//
//	log.SetLevel(log.LevelDebug)
//	log.Info("loaded %d tools", n)
//
// Components that want their own logger accept a log.Logger and default
// to log.GetDefaultLogger() when given nil.
package log
