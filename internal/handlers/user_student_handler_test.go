package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/services"
	"github.com/SAP-F-2025/registration-service/internal/validator"
)

type fakeUserStudentService struct {
	listFn            func(ctx context.Context) ([]*models.UserStudentResponse, error)
	getFn             func(ctx context.Context, id uint) (*models.UserStudentResponse, error)
	getByUsernameFn   func(ctx context.Context, username string) (*models.UserStudentResponse, error)
	searchFn          func(ctx context.Context, keyword string) ([]*models.UserStudentResponse, error)
	completeProfileFn func(ctx context.Context, userID uint, req *validator.CompleteProfileRequest) (*models.UserStudentResponse, error)
	updateSelfFn      func(ctx context.Context, userID uint, req *validator.UpdateProfileRequest) (*models.UserStudentResponse, error)
	adminUpdateFn     func(ctx context.Context, id uint, req *validator.AdminUpdateStudentRequest) (*models.UserStudentResponse, error)
	deleteFn          func(ctx context.Context, id uint) error
}

func (f *fakeUserStudentService) ListStudents(ctx context.Context) ([]*models.UserStudentResponse, error) {
	return f.listFn(ctx)
}
func (f *fakeUserStudentService) GetStudent(ctx context.Context, id uint) (*models.UserStudentResponse, error) {
	return f.getFn(ctx, id)
}
func (f *fakeUserStudentService) GetByUsername(ctx context.Context, username string) (*models.UserStudentResponse, error) {
	return f.getByUsernameFn(ctx, username)
}
func (f *fakeUserStudentService) SearchStudents(ctx context.Context, keyword string) ([]*models.UserStudentResponse, error) {
	return f.searchFn(ctx, keyword)
}
func (f *fakeUserStudentService) CompleteProfile(ctx context.Context, userID uint, req *validator.CompleteProfileRequest) (*models.UserStudentResponse, error) {
	return f.completeProfileFn(ctx, userID, req)
}
func (f *fakeUserStudentService) UpdateSelf(ctx context.Context, userID uint, req *validator.UpdateProfileRequest) (*models.UserStudentResponse, error) {
	return f.updateSelfFn(ctx, userID, req)
}
func (f *fakeUserStudentService) AdminUpdate(ctx context.Context, id uint, req *validator.AdminUpdateStudentRequest) (*models.UserStudentResponse, error) {
	return f.adminUpdateFn(ctx, id, req)
}
func (f *fakeUserStudentService) DeleteStudent(ctx context.Context, id uint) error {
	return f.deleteFn(ctx, id)
}

// injectAuthContext stands in for the auth middleware in handler tests.
func injectAuthContext(userID uint, username string, roles []models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", username)
		c.Set("user_roles", roles)
		c.Next()
	}
}

func newProfileRouter(svc services.UserStudentService, userID uint, username string, roles []models.RoleName) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewUserStudentHandler(svc, newTestLogger())

	profiles := router.Group("/api/profiles")
	profiles.Use(injectAuthContext(userID, username, roles))
	profiles.GET("", h.ListStudents)
	profiles.GET("/me", h.GetCurrentStudent)
	profiles.GET("/search", h.SearchStudents)
	profiles.POST("/complete-profile", h.CompleteProfile)
	profiles.PUT("/profile", h.UpdateProfile)
	profiles.GET("/:id", h.GetStudent)
	profiles.PUT("/:id", h.UpdateStudent)
	profiles.DELETE("/:id", h.DeleteStudent)
	return router
}

func studentResponse(id uint, username string) *models.UserStudentResponse {
	return &models.UserStudentResponse{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		IsStudent: true,
		IsActive:  true,
		Roles:     []string{"ROLE_USER"},
	}
}

func TestUserStudentHandler_ListStudents(t *testing.T) {
	t.Run("elevated caller sees everyone", func(t *testing.T) {
		svc := &fakeUserStudentService{
			listFn: func(ctx context.Context) ([]*models.UserStudentResponse, error) {
				return []*models.UserStudentResponse{studentResponse(1, "alice"), studentResponse(2, "bob")}, nil
			},
		}
		router := newProfileRouter(svc, 9, "mod", []models.RoleName{models.RoleModerator})

		w := doJSON(t, router, http.MethodGet, "/api/profiles", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var list []models.UserStudentResponse
		if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(list) != 2 {
			t.Errorf("Expected 2 students, got %d", len(list))
		}
	})

	t.Run("plain user sees only their own record", func(t *testing.T) {
		svc := &fakeUserStudentService{
			getFn: func(ctx context.Context, id uint) (*models.UserStudentResponse, error) {
				if id != 3 {
					t.Errorf("Expected lookup of caller id 3, got %d", id)
				}
				return studentResponse(3, "carol"), nil
			},
		}
		router := newProfileRouter(svc, 3, "carol", []models.RoleName{models.RoleUser})

		w := doJSON(t, router, http.MethodGet, "/api/profiles", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var list []models.UserStudentResponse
		if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(list) != 1 || list[0].Username != "carol" {
			t.Errorf("Expected single-element list with caller, got %+v", list)
		}
	})
}

func TestUserStudentHandler_GetCurrentStudent(t *testing.T) {
	svc := &fakeUserStudentService{
		getByUsernameFn: func(ctx context.Context, username string) (*models.UserStudentResponse, error) {
			if username != "alice" {
				t.Errorf("Expected username alice, got %q", username)
			}
			return studentResponse(1, "alice"), nil
		},
	}
	router := newProfileRouter(svc, 1, "alice", []models.RoleName{models.RoleUser})

	w := doJSON(t, router, http.MethodGet, "/api/profiles/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
}

func TestUserStudentHandler_GetStudent(t *testing.T) {
	t.Run("own record", func(t *testing.T) {
		svc := &fakeUserStudentService{
			getFn: func(ctx context.Context, id uint) (*models.UserStudentResponse, error) {
				return studentResponse(id, "alice"), nil
			},
		}
		router := newProfileRouter(svc, 1, "alice", []models.RoleName{models.RoleUser})

		w := doJSON(t, router, http.MethodGet, "/api/profiles/1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("someone else's record maps to 403", func(t *testing.T) {
		svc := &fakeUserStudentService{}
		router := newProfileRouter(svc, 1, "alice", []models.RoleName{models.RoleUser})

		w := doJSON(t, router, http.MethodGet, "/api/profiles/2", nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("Expected 403, got %d", w.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Message != "You do not have permission to perform this action" {
			t.Errorf("Unexpected message: %q", resp.Message)
		}
	})

	t.Run("moderator reads any record", func(t *testing.T) {
		svc := &fakeUserStudentService{
			getFn: func(ctx context.Context, id uint) (*models.UserStudentResponse, error) {
				return studentResponse(id, "bob"), nil
			},
		}
		router := newProfileRouter(svc, 9, "mod", []models.RoleName{models.RoleModerator})

		w := doJSON(t, router, http.MethodGet, "/api/profiles/2", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("missing record maps to 404", func(t *testing.T) {
		svc := &fakeUserStudentService{
			getFn: func(ctx context.Context, id uint) (*models.UserStudentResponse, error) {
				return nil, &services.NotFoundError{Resource: "Student", ID: id}
			},
		}
		router := newProfileRouter(svc, 9, "mod", []models.RoleName{models.RoleAdmin})

		w := doJSON(t, router, http.MethodGet, "/api/profiles/42", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected 404, got %d", w.Code)
		}
	})
}

func TestUserStudentHandler_CompleteProfile(t *testing.T) {
	svc := &fakeUserStudentService{
		completeProfileFn: func(ctx context.Context, userID uint, req *validator.CompleteProfileRequest) (*models.UserStudentResponse, error) {
			if userID != 1 || req.FullName != "Alice Nguyen" {
				t.Errorf("Unexpected call: userID=%d req=%+v", userID, req)
			}
			resp := studentResponse(1, "alice")
			resp.FullName = req.FullName
			return resp, nil
		},
	}
	router := newProfileRouter(svc, 1, "alice", []models.RoleName{models.RoleUser})

	w := doJSON(t, router, http.MethodPost, "/api/profiles/complete-profile", gin.H{
		"fullName": "Alice Nguyen", "enrollmentDate": "2024-09-01",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUserStudentHandler_UpdateProfile(t *testing.T) {
	t.Run("patch targets the caller", func(t *testing.T) {
		svc := &fakeUserStudentService{
			updateSelfFn: func(ctx context.Context, userID uint, req *validator.UpdateProfileRequest) (*models.UserStudentResponse, error) {
				if userID != 1 {
					t.Errorf("Expected caller id 1, got %d", userID)
				}
				return studentResponse(1, "alice"), nil
			},
		}
		router := newProfileRouter(svc, 1, "alice", []models.RoleName{models.RoleUser})

		w := doJSON(t, router, http.MethodPut, "/api/profiles/profile", gin.H{"email": "new@example.com"})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("profile patch before completion maps to 400", func(t *testing.T) {
		svc := &fakeUserStudentService{
			updateSelfFn: func(ctx context.Context, userID uint, req *validator.UpdateProfileRequest) (*models.UserStudentResponse, error) {
				return nil, &services.InvalidArgumentError{Message: "student profile is not completed; complete the student profile first"}
			},
		}
		router := newProfileRouter(svc, 1, "alice", []models.RoleName{models.RoleUser})

		w := doJSON(t, router, http.MethodPut, "/api/profiles/profile", gin.H{"fullName": "New Name"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
	})
}

func TestUserStudentHandler_DeleteStudent(t *testing.T) {
	t.Run("plain user deletes own account", func(t *testing.T) {
		deleted := uint(0)
		svc := &fakeUserStudentService{
			deleteFn: func(ctx context.Context, id uint) error {
				deleted = id
				return nil
			},
		}
		router := newProfileRouter(svc, 1, "alice", []models.RoleName{models.RoleUser})

		w := doJSON(t, router, http.MethodDelete, "/api/profiles/1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if deleted != 1 {
			t.Errorf("Expected delete of id 1, got %d", deleted)
		}
	})

	t.Run("plain user deleting someone else maps to 403", func(t *testing.T) {
		svc := &fakeUserStudentService{}
		router := newProfileRouter(svc, 1, "alice", []models.RoleName{models.RoleUser})

		w := doJSON(t, router, http.MethodDelete, "/api/profiles/2", nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("Expected 403, got %d", w.Code)
		}
	})

	t.Run("moderator is not exempt from the self check", func(t *testing.T) {
		svc := &fakeUserStudentService{}
		router := newProfileRouter(svc, 9, "mod", []models.RoleName{models.RoleModerator})

		w := doJSON(t, router, http.MethodDelete, "/api/profiles/2", nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("Expected 403, got %d", w.Code)
		}
	})

	t.Run("admin deletes anyone", func(t *testing.T) {
		svc := &fakeUserStudentService{
			deleteFn: func(ctx context.Context, id uint) error { return nil },
		}
		router := newProfileRouter(svc, 9, "root", []models.RoleName{models.RoleAdmin})

		w := doJSON(t, router, http.MethodDelete, "/api/profiles/2", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
	})
}

func TestUserStudentHandler_UpdateStudent(t *testing.T) {
	svc := &fakeUserStudentService{
		adminUpdateFn: func(ctx context.Context, id uint, req *validator.AdminUpdateStudentRequest) (*models.UserStudentResponse, error) {
			resp := studentResponse(id, "bob")
			resp.Roles = []string{"ROLE_MODERATOR"}
			return resp, nil
		},
	}
	router := newProfileRouter(svc, 9, "root", []models.RoleName{models.RoleAdmin})

	w := doJSON(t, router, http.MethodPut, "/api/profiles/2", gin.H{"roles": []string{"moderator"}})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp models.UserStudentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != "ROLE_MODERATOR" {
		t.Errorf("Unexpected roles: %v", resp.Roles)
	}
}
