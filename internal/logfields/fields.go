package logfields

import (
	"time"

	"go.uber.org/zap"
)

// Log Fields.
const (
	FieldDID       = "did"
	FieldMethod    = "method"
	FieldDomain    = "domain"
	FieldOperation = "operation"
	FieldSessionID = "sessionID"
	FieldStep      = "step"
	FieldClaimKeys = "claimKeys"
	FieldIssuer    = "issuer"
	FieldSubject   = "subject"
	FieldVerified  = "verified"
	FieldDuration  = "duration"
	FieldHostURL   = "hostURL"
	FieldPath      = "path"
	FieldStatus    = "status"
)

// WithDID sets the DID field.
func WithDID(value string) zap.Field {
	return zap.String(FieldDID, value)
}

// WithMethod sets the DID method field.
func WithMethod(value string) zap.Field {
	return zap.String(FieldMethod, value)
}

func WithDomain(value string) zap.Field {
	return zap.String(FieldDomain, value)
}

func WithOperation(value string) zap.Field {
	return zap.String(FieldOperation, value)
}

func WithSessionID(value string) zap.Field {
	return zap.String(FieldSessionID, value)
}

func WithStep(value string) zap.Field {
	return zap.String(FieldStep, value)
}

// WithClaimKeys logs claim names only, never claim values.
func WithClaimKeys(keys []string) zap.Field {
	return zap.Strings(FieldClaimKeys, keys)
}

func WithIssuer(value string) zap.Field {
	return zap.String(FieldIssuer, value)
}

func WithSubject(value string) zap.Field {
	return zap.String(FieldSubject, value)
}

func WithVerified(value bool) zap.Field {
	return zap.Bool(FieldVerified, value)
}

func WithDuration(value time.Duration) zap.Field {
	return zap.Duration(FieldDuration, value)
}

func WithHostURL(value string) zap.Field {
	return zap.String(FieldHostURL, value)
}

func WithPath(value string) zap.Field {
	return zap.String(FieldPath, value)
}

func WithStatus(value int) zap.Field {
	return zap.Int(FieldStatus, value)
}
