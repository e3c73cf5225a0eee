package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/pkg/api"
)

func withToken[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    " Alice@Example.com ",
		Password: "secret1",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.User.Email != "alice@example.com" || reg.Msg.User.Name != "alice" {
		t.Errorf("unexpected user: %+v", reg.Msg.User)
	}
	if reg.Msg.Token == "" {
		t.Error("expected a token")
	}
	if !strings.Contains(reg.Header().Get("Set-Cookie"), "access_token=") {
		t.Error("expected a session cookie")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "ALICE@example.com", Password: "secret1"}))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "bob@example.com", Password: "12345"}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "not-an-email", Password: "secret1"}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "secret1"}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.User.ID != reg.Msg.User.ID {
			t.Error("login returned a different user")
		}

		_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "wrong-pass"}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("me and profile", func(t *testing.T) {
		me, err := env.auth.Me(ctx, withToken(reg.Msg.Token, &api.MeRequest{}))
		if err != nil {
			t.Fatalf("Me failed: %v", err)
		}
		if me.Msg.User.ID != reg.Msg.User.ID {
			t.Errorf("Me returned %s", me.Msg.User.ID)
		}

		_, err = env.auth.Me(ctx, connect.NewRequest(&api.MeRequest{}))
		assertCode(t, err, connect.CodeUnauthenticated)

		_, err = env.auth.UpdateProfile(ctx, withToken(reg.Msg.Token, &api.UpdateProfileRequest{Nickname: "  "}))
		assertCode(t, err, connect.CodeInvalidArgument)

		updated, err := env.auth.UpdateProfile(ctx, withToken(reg.Msg.Token, &api.UpdateProfileRequest{Nickname: " Ally "}))
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if updated.Msg.User.Name != "Ally" {
			t.Errorf("name: expected Ally, got %s", updated.Msg.User.Name)
		}
	})

	t.Run("logout expires cookie", func(t *testing.T) {
		resp, err := env.auth.Logout(ctx, withToken(reg.Msg.Token, &api.LogoutRequest{}))
		if err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if !strings.Contains(resp.Header().Get("Set-Cookie"), "Max-Age=0") {
			t.Errorf("cookie not expired: %s", resp.Header().Get("Set-Cookie"))
		}
	})
}

func TestProfileChangeKeepsMemberSnapshot(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "alice@example.com", Password: "secret1", Name: "Alice"}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	userID := reg.Msg.User.ID
	group := env.createGroup(t, userID, "Lunch Crew")

	if _, err := env.auth.UpdateProfile(ctx, withToken(reg.Msg.Token, &api.UpdateProfileRequest{Nickname: "Ally"})); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	g := env.getGroup(t, userID, group.ID)
	if g.Members[0].DisplayName != "Alice" {
		t.Errorf("member snapshot rewritten: %s", g.Members[0].DisplayName)
	}
}
