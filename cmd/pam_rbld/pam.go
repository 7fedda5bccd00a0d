//go:build cgo && pam

package main

/*
#cgo LDFLAGS: -lpam
#include <security/pam_appl.h>
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/bluehost/pam-rbld/internal/rbld/app"
	"github.com/bluehost/pam-rbld/internal/rbld/domain"
	"github.com/bluehost/pam-rbld/internal/rbld/gateways/session"
)

// The numeric codes in domain must match <security/_pam_types.h>.
func _() {
	var x [1]struct{}
	_ = x[C.PAM_SUCCESS-int(domain.PAMSuccess)]
	_ = x[C.PAM_AUTH_ERR-int(domain.PAMAuthErr)]
	_ = x[C.PAM_USER_UNKNOWN-int(domain.PAMUserUnknown)]
}

// items reads PAM items from pamh.
func items(pamh *C.pam_handle_t) session.ItemFunc {
	return func(item session.Item) (string, bool, error) {
		var kind C.int
		switch item {
		case session.ItemService:
			kind = C.PAM_SERVICE
		case session.ItemRemoteHost:
			kind = C.PAM_RHOST
		default:
			return "", false, fmt.Errorf("unsupported item %s", item)
		}

		var v unsafe.Pointer
		if rc := C.pam_get_item(pamh, kind, &v); rc != C.PAM_SUCCESS {
			return "", false, fmt.Errorf("pam_get_item(%s) returned %d", item, int(rc))
		}
		if v == nil {
			return "", false, nil
		}
		return C.GoString((*C.char)(v)), true, nil
	}
}

// tokens copies the module arguments out of C memory.
func tokens(argc C.int, argv **C.char) []string {
	if argc <= 0 || argv == nil {
		return nil
	}
	args := unsafe.Slice(argv, int(argc))
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, C.GoString(a))
	}
	return out
}

func check(hook domain.Hook, pamh *C.pam_handle_t, argc C.int, argv **C.char) C.int {
	sess := session.NewItems(items(pamh), hook)
	return C.int(app.CheckPAM(context.Background(), sess, tokens(argc, argv)))
}

//export pam_sm_authenticate
func pam_sm_authenticate(pamh *C.pam_handle_t, flags, argc C.int, argv **C.char) C.int {
	return check(domain.HookAuth, pamh, argc, argv)
}

//export pam_sm_setcred
func pam_sm_setcred(pamh *C.pam_handle_t, flags, argc C.int, argv **C.char) C.int {
	return C.PAM_SUCCESS
}

//export pam_sm_acct_mgmt
func pam_sm_acct_mgmt(pamh *C.pam_handle_t, flags, argc C.int, argv **C.char) C.int {
	return check(domain.HookAccount, pamh, argc, argv)
}

//export pam_sm_open_session
func pam_sm_open_session(pamh *C.pam_handle_t, flags, argc C.int, argv **C.char) C.int {
	return check(domain.HookOpenSession, pamh, argc, argv)
}

//export pam_sm_close_session
func pam_sm_close_session(pamh *C.pam_handle_t, flags, argc C.int, argv **C.char) C.int {
	return check(domain.HookCloseSession, pamh, argc, argv)
}
