package attendance

import "errors"

var ErrNotReady = errors.New("attendance status is not READY")
