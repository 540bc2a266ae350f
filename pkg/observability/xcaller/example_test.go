package xcaller_test

import (
	"context"
	"fmt"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
)

func ExampleSite_Codepath() {
	site := xcaller.Site{Module: "speech", Type: "Synth", Function: "Speak"}
	fmt.Println(site.Codepath())

	site.External = true
	fmt.Println(site.Codepath())
	// Output:
	// speech.Synth.Speak
	// external:speech.Synth.Speak
}

func ExampleWithSite() {
	ctx := xcaller.WithSite(context.Background(), xcaller.Site{Module: "braille", Function: "Write"})
	site, _ := xcaller.SiteFrom(ctx)
	fmt.Println(site)
	// Output: braille.Write
}
