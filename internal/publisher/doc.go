// Package publisher defines the capability contract a publisher plugin must
// satisfy to be exercised by the scenario builder, together with the request
// value objects handed to it.
//
// A publisher is configured once and then asked to perform a read job:
//
//	cfg := publisher.NewConfigureRequest()
//	cfg.SetInt("timeout", 5)
//	if err := p.Configure(ctx, cfg); err != nil { ... }
//
//	rd := publisher.NewReadRequest()
//	rd.SetString("query", "X")
//	res, err := p.Read(ctx, rd)
//
// Requests are plain value holders. They perform no semantic validation;
// publishers validate their own options at run time and report problems as
// *OptionError.
//
// Publishers are made available to the scenario files and the CLI through a
// Registry, in the same way database/sql drivers register themselves:
//
//	func init() {
//	    publisher.Register("sqlite", New)
//	}
package publisher
