package xconf_test

import (
	"fmt"

	"github.com/omeyang/xdiag/pkg/config/xconf"
)

func ExampleStore() {
	cfg, err := xconf.NewFromBytes([]byte("general:\n  loggingLevel: DEBUG\n"), xconf.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}
	store := xconf.NewStore(cfg)
	fmt.Println(store.LoggingLevel())
	fmt.Println(store.ExternalDependencies())
	// Output:
	// DEBUG
	// false
}
