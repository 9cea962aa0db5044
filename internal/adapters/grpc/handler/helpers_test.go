package handler

import (
	"context"
	"testing"

	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()

	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("failed to build struct: %v", err)
	}
	return s
}

func assertCode(t *testing.T, err error, want codes.Code) {
	t.Helper()

	if got := status.Code(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}

type stubIdentityProvider struct {
	principal *tenancy.Principal
	err       error
}

func (s stubIdentityProvider) CurrentPrincipal(context.Context) (*tenancy.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.principal == nil {
		return nil, tenancy.ErrNoPrincipal
	}
	return s.principal, nil
}

func signedIn() stubIdentityProvider {
	return stubIdentityProvider{principal: &tenancy.Principal{ID: testPrincipalID}}
}
