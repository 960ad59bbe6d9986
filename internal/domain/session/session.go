package session

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// PendingOps groups the transient emails the auth flows track between steps
// (login OTP, password reset) into a single typed record under one storage
// key, instead of scattering them across loose keys.
type PendingOps struct {
	VerificationEmail string `json:"verification_email,omitempty"`
	ResetEmail        string `json:"reset_email,omitempty"`
}

func (p PendingOps) Empty() bool {
	return p.VerificationEmail == "" && p.ResetEmail == ""
}
