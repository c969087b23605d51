package memory

import "context"

type DiagnosticsRepo struct{}

func NewDiagnosticsRepo() *DiagnosticsRepo {
	return &DiagnosticsRepo{}
}

func (r *DiagnosticsRepo) Ping(ctx context.Context) error {
	return nil
}
