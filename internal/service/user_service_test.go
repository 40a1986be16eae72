package service

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	res, err := env.userSvc.Register(ctx, " Ada ", " Ada@Example.com ", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Name != "Ada" || res.User.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", res.User)
	}
	if res.User.Password == "secret" {
		t.Fatalf("password stored in clear")
	}
	if res.Token == "" || res.ExpiresAt.IsZero() {
		t.Fatalf("expected token to be issued")
	}

	login, err := env.userSvc.Login(ctx, "ADA@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != res.User.ID {
		t.Fatalf("login returned user %d, want %d", login.User.ID, res.User.ID)
	}

	profile, err := env.userSvc.Profile(ctx, res.User.ID)
	if err != nil || profile.Email != "ada@example.com" {
		t.Fatalf("Profile = %+v, %v", profile, err)
	}
}

func TestRegisterErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "taken@example.com")

	cases := map[string]struct {
		name, email, password string
		want                  error
	}{
		"missing name":     {"", "x@example.com", "pw", ErrMissingFields},
		"missing email":    {"X", " ", "pw", ErrMissingFields},
		"missing password": {"X", "x@example.com", "", ErrMissingFields},
		"duplicate":        {"X", "Taken@example.com", "pw", ErrUserExists},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := env.userSvc.Register(ctx, tc.name, tc.email, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoginErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	id := env.register(t, "a@example.com")

	if _, err := env.userSvc.Login(ctx, "nobody@example.com", "password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.userSvc.Login(ctx, "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	if err := env.users.SetActive(ctx, id, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if _, err := env.userSvc.Login(ctx, "a@example.com", "password"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("disabled: expected ErrAccountDisabled, got %v", err)
	}

	if _, err := env.userSvc.Profile(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSetActiveAndDeleteUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	id := env.register(t, "a@example.com")
	if _, err := env.taskSvc.CreateTask(ctx, id, TaskInput{Title: "owned"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := env.userSvc.SetActive(ctx, id, false); err != nil {
		t.Fatalf("SetActive(false): %v", err)
	}
	if _, err := env.userSvc.Login(ctx, "a@example.com", "password"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
	if err := env.userSvc.SetActive(ctx, id, true); err != nil {
		t.Fatalf("SetActive(true): %v", err)
	}
	if _, err := env.userSvc.Login(ctx, "a@example.com", "password"); err != nil {
		t.Fatalf("Login after enable: %v", err)
	}

	if err := env.userSvc.DeleteUser(ctx, id); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	tasks, err := env.tasks.ListByUser(ctx, id)
	if err != nil || len(tasks) != 0 {
		t.Fatalf("tasks survived user delete: %v, %v", tasks, err)
	}

	if err := env.userSvc.DeleteUser(ctx, id); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := env.userSvc.SetActive(ctx, id, false); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
