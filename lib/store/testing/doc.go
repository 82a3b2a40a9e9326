// Package testing provides a reusable test suite for store.IStore implementations.
//
// Every backend (embedded database, RPC client, REST client) must behave the same
// for the application, so each backend's tests call RunStoreTests with a factory
// producing a fresh, empty store:
//
//	func TestLocalStore(t *testing.T) {
//	    storetesting.RunStoreTests(t, "LocalStore", func(t *testing.T) store.IStore {
//	        s, err := lstore.NewLocalStore(filepath.Join(t.TempDir(), "times.db"))
//	        if err != nil {
//	            t.Fatal(err)
//	        }
//	        return s
//	    })
//	}
//
// The suite covers creation and listing, id uniqueness, title conflicts, invalid
// arguments, empty and non-empty latest entries, unknown collections, timestamp
// precision and cancelled contexts.
package testing
