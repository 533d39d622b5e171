// Package scenario assembles executable test scenarios for publisher plugins.
//
// A Builder owns one freshly constructed publisher. Configure stages the
// configuration through a mutation callback; Read is terminal and returns a
// scenario bound to the publisher, the staged configuration and the read
// parameters:
//
//	b, err := scenario.NewBuilder(mypub.New)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	s, err := b.
//	    Configure(func(c *publisher.ConfigureRequest) error {
//	        c.SetInt("timeout", 5)
//	        return nil
//	    }).
//	    Read(func(r *publisher.ReadRequest) error {
//	        r.SetString("query", "X")
//	        return nil
//	    })
//	if err != nil {
//	    t.Fatal(err)
//	}
//	res, err := s.Run(ctx)
//
// Everything here is synchronous and single-threaded. Builders and
// scenarios hold no locks and must not be shared between goroutines.
//
// Errors are never wrapped on the way through: a factory error comes back
// from NewBuilder, a callback error from Read, and a publisher error from
// Run, each as the identical value.
package scenario
