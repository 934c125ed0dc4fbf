package auth

import "context"

// SubjectProvider puerto hacia el proveedor de identidad. El core lo trata como
// un servicio opaco de asignación de identidades: nunca ve credenciales
// persistidas.
type SubjectProvider interface {
	// CreateSubject registra credenciales y devuelve el id del auth-subject.
	CreateSubject(ctx context.Context, email, password string) (string, error)
	// VerifySubject valida credenciales y devuelve el id del auth-subject.
	VerifySubject(ctx context.Context, email, password string) (string, error)
}
