package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/target/storefront-admin/internal/auth/guard"
	"github.com/target/storefront-admin/internal/auth/permission"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

func TestNewTemplateData(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	meta := PageMeta{Title: "Test Title", CurrentPage: "test"}

	data := NewTemplateData(r, meta).Build()

	if data["Title"] != "Test Title" {
		t.Errorf("Title = %v, want %v", data["Title"], "Test Title")
	}
	if data["CurrentPage"] != "test" {
		t.Errorf("CurrentPage = %v, want %v", data["CurrentPage"], "test")
	}
	if data["Authenticated"] != false {
		t.Errorf("Authenticated = %v, want %v", data["Authenticated"], false)
	}
	if data["Banner"] != "" {
		t.Errorf("Banner = %v, want empty", data["Banner"])
	}
	if errs, ok := data["Errors"].(map[string]string); !ok || errs == nil {
		t.Errorf("Errors should default to an empty map, got %#v", data["Errors"])
	}
}

func TestNewTemplateData_FromGuardResult(t *testing.T) {
	user := &domainauth.Profile{ID: "u1", Name: "Ada", Role: domainauth.RoleSuperAdmin}
	res := guard.Result{State: guard.StateAuthenticated, User: user, Capabilities: permission.For(user)}
	r := httptest.NewRequest(http.MethodGet, "/images", nil)
	r = r.WithContext(SetGuardResult(r.Context(), res))

	data := NewTemplateData(r, PageMeta{Title: "Images", CurrentPage: PageImages}).Build()

	if data["Authenticated"] != true {
		t.Errorf("Authenticated = %v, want true", data["Authenticated"])
	}
	if data["User"] != user {
		t.Errorf("User = %v, want %v", data["User"], user)
	}
	caps, ok := data["Capabilities"].(permission.Capabilities)
	if !ok || !caps.CanDeleteImages {
		t.Errorf("Capabilities = %#v, want delete permission", data["Capabilities"])
	}
}

func TestNewTemplateData_BannerOnFailure(t *testing.T) {
	res := guard.Result{State: guard.StateUnknown, Err: errors.New("down"), Message: "Try again later"}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(SetGuardResult(r.Context(), res))

	data := NewTemplateData(r, PageMeta{Title: "Home", CurrentPage: PageHome}).Build()

	if data["Banner"] != "Try again later" {
		t.Errorf("Banner = %v, want %q", data["Banner"], "Try again later")
	}
	if data["Authenticated"] != false {
		t.Errorf("Authenticated = %v, want false", data["Authenticated"])
	}
}

func TestTemplateDataBuilder_WithError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	data := NewTemplateData(r, PageMeta{Title: "Test", CurrentPage: "test"}).
		WithError("Something went wrong").
		Build()

	if data["ErrorMessage"] != "Something went wrong" {
		t.Errorf("ErrorMessage = %v, want %v", data["ErrorMessage"], "Something went wrong")
	}
}

func TestTemplateDataBuilder_WithFieldErrors(t *testing.T) {
	t.Run("with errors", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/test", nil)

		data := NewTemplateData(r, PageMeta{Title: "Test", CurrentPage: "test"}).
			WithFieldErrors(map[string]string{"email": "Email is required"}).
			Build()

		errs, ok := data["Errors"].(map[string]string)
		if !ok {
			t.Fatal("Errors is not a map[string]string")
		}
		if errs["email"] != "Email is required" {
			t.Errorf("Errors[email] = %v, want %v", errs["email"], "Email is required")
		}
	})

	t.Run("with nil errors keeps default", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/test", nil)

		data := NewTemplateData(r, PageMeta{Title: "Test", CurrentPage: "test"}).
			WithFieldErrors(nil).
			Build()

		errs, ok := data["Errors"].(map[string]string)
		if !ok || len(errs) != 0 {
			t.Errorf("Errors = %#v, want empty map", data["Errors"])
		}
	})
}

func TestTemplateDataBuilder_With(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	data := NewTemplateData(r, PageMeta{Title: "Test", CurrentPage: "test"}).
		With("CustomField", "CustomValue").
		With("Count", 42).
		Build()

	if data["CustomField"] != "CustomValue" {
		t.Errorf("CustomField = %v, want %v", data["CustomField"], "CustomValue")
	}
	if data["Count"] != 42 {
		t.Errorf("Count = %v, want %v", data["Count"], 42)
	}
}
