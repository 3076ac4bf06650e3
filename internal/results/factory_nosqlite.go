//go:build !sqlite

package results

import "fmt"

const defaultStoreKind = "memory"

func newSQLiteStore(_ string) (Store, error) {
	return nil, fmt.Errorf("sqlite backend unavailable in this build; rebuild with -tags sqlite")
}
