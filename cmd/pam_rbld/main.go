// Command pam_rbld is the PAM service module. Build it as a shared object:
//
//	go build -tags pam -buildmode=c-shared -o pam_rbld.so ./cmd/pam_rbld
//
// and reference it from the PAM stack of the service:
//
//	auth requisite pam_rbld.so <list> <socket> [debug]
//
// pam_sm_authenticate returns PAM_AUTH_ERR for a listed host and, for
// dovecot, PAM_USER_UNKNOWN for everything else so its next passdb is tried.
// setcred, acct_mgmt, open_session and close_session always succeed.
//
// Building needs cgo and the libpam headers (libpam0g-dev / pam-devel).
package main

import (
	"fmt"
	"os"
)

// main only runs when the package is built as a program by mistake.
func main() {
	fmt.Fprintln(os.Stderr, "pam_rbld is a PAM module: build with -tags pam -buildmode=c-shared")
	os.Exit(2)
}
