package liveapi

// Error codes as constants
const (
	ErrCodeConnectFailed   = "CONNECT_FAILED"
	ErrCodeSendFailed      = "SEND_FAILED"
	ErrCodeReceiveFailed   = "RECEIVE_FAILED"
	ErrCodeTimeout         = "TIMEOUT_ERROR"
	ErrCodeAudioDevice     = "AUDIO_DEVICE_ERROR"
	ErrCodeCapture         = "CAPTURE_ERROR"
	ErrCodePlayback        = "PLAYBACK_ERROR"
	ErrCodeAudioFormat     = "AUDIO_FORMAT_ERROR"
	ErrCodeConfigInvalid   = "CONFIG_INVALID"
	ErrCodeAPIKeyMissing   = "API_KEY_MISSING"
	ErrCodeFileNotFound    = "FILE_NOT_FOUND"
	ErrCodeEmptyResponse   = "EMPTY_RESPONSE"
	ErrCodeSessionClosed   = "SESSION_CLOSED"
	ErrCodeUnknown         = "UNKNOWN_ERROR"
)

// Specific error creators with common codes
func NewConnectError(message string) *LiveError {
	return NewLiveError(message, ErrCodeConnectFailed)
}

func NewTimeoutError(message string) *LiveError {
	return NewLiveError(message, ErrCodeTimeout)
}

func NewCaptureError(message string) *LiveError {
	return NewLiveError(message, ErrCodeCapture)
}

func NewPlaybackError(message string) *LiveError {
	return NewLiveError(message, ErrCodePlayback)
}

func NewConfigError(message string) *LiveError {
	return NewLiveError(message, ErrCodeConfigInvalid)
}

// WrapError wraps any error as a LiveError, keeping the original for Unwrap.
func WrapError(err error, code string) *LiveError {
	if err == nil {
		return nil
	}
	lerr := NewLiveError(err.Error(), code)
	lerr.err = err
	return lerr
}

// AddDetail attaches context to an existing LiveError.
func (e *LiveError) AddDetail(key string, value interface{}) *LiveError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *LiveError) GetDetail(key string) (interface{}, bool) {
	if e.Details == nil {
		return nil, false
	}
	value, exists := e.Details[key]
	return value, exists
}

// IsErrorCode reports whether err is a LiveError carrying the given code.
func IsErrorCode(err error, code string) bool {
	if err == nil {
		return false
	}
	lerr, ok := err.(*LiveError)
	if !ok {
		return false
	}
	return lerr.Code == code
}

// IsRetryableError reports whether the failure is transient. The CLI does
// not retry on its own; callers can use this to decide whether re-running
// the operation makes sense.
func IsRetryableError(err *LiveError) bool {
	if err == nil {
		return false
	}
	switch err.Code {
	case ErrCodeConnectFailed, ErrCodeSendFailed, ErrCodeReceiveFailed, ErrCodeTimeout:
		return true
	}
	return false
}

// IsCriticalError reports failures that will not go away without the user
// fixing their environment.
func IsCriticalError(err *LiveError) bool {
	if err == nil {
		return false
	}
	switch err.Code {
	case ErrCodeAPIKeyMissing, ErrCodeConfigInvalid, ErrCodeAudioDevice:
		return true
	}
	return false
}
