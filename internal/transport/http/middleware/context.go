package middleware

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUser
)
