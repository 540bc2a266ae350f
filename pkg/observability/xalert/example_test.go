package xalert_test

import (
	"fmt"
	"os"

	"github.com/omeyang/xdiag/pkg/observability/xalert"
)

func ExampleSystem_NotifyError() {
	s := xalert.New(xalert.WithOutput(os.Stdout))
	done := make(chan struct{})
	s.Action().Register(func() { close(done) })

	s.NotifyError()
	<-done
	fmt.Println("notified")
	// Output:
	// notified
}

func ExampleShouldPlayErrorSound() {
	fmt.Println(xalert.ShouldPlayErrorSound(false, xalert.PlayErrorSoundEnabled))
	fmt.Println(xalert.ShouldPlayErrorSound(false, xalert.PlayErrorSoundOff))
	// Output:
	// true
	// false
}
