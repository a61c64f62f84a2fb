package credential

// Verify reports whether vc carries a non-empty proof.jws. The jws is not
// checked against the issuer's key; in the sandbox there is nothing to check
// it against.
func Verify(vc *Credential) bool {
	return vc != nil && vc.Proof != nil && vc.Proof.JWS != ""
}
