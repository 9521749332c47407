package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/iipsyoga/club-booking/internal/model"
)

func TestAdminUserList(t *testing.T) {
	e := newTestEcho()
	m := newMemStore()
	seedUser(t, m, "a@iips.edu", model.RoleStudent)
	seedUser(t, m, "b@iips.edu", model.RoleStudent)
	h := NewAdminUserHandler(m)

	rec := invoke(t, e, h.List, testReq{method: http.MethodGet, path: "/api/users", uid: 1, role: model.RoleAdmin})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, `"count":2`)
}

func TestAdminUserUpdateRole(t *testing.T) {
	e := newTestEcho()
	m := newMemStore()
	admin := seedUser(t, m, "admin@iips.edu", model.RoleAdmin)
	student := seedUser(t, m, "s@iips.edu", model.RoleStudent)
	h := NewAdminUserHandler(m)

	rec := invoke(t, e, h.UpdateRole, testReq{
		method: http.MethodPut, path: "/api/users/2/role",
		body: `{"role":"admin"}`, uid: admin.ID, role: admin.Role,
		params: map[string]string{"id": fmt.Sprint(student.ID)},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "User role updated successfully")
	wantBodyContains(t, rec, `"role":"admin"`)

	rec = invoke(t, e, h.UpdateRole, testReq{
		method: http.MethodPut, path: "/api/users/2/role",
		body: `{"role":"superuser"}`, uid: admin.ID, role: admin.Role,
		params: map[string]string{"id": fmt.Sprint(student.ID)},
	})
	wantStatus(t, rec, http.StatusBadRequest)
	wantBodyContains(t, rec, "Invalid role")
}

func TestAdminUserDelete(t *testing.T) {
	e := newTestEcho()
	m := newMemStore()
	admin := seedUser(t, m, "admin@iips.edu", model.RoleAdmin)
	student := seedUser(t, m, "s@iips.edu", model.RoleStudent)
	h := NewAdminUserHandler(m)

	// Self-deletion is refused.
	rec := invoke(t, e, h.Delete, testReq{
		method: http.MethodDelete, path: "/api/users/1",
		uid: admin.ID, role: admin.Role,
		params: map[string]string{"id": fmt.Sprint(admin.ID)},
	})
	wantStatus(t, rec, http.StatusBadRequest)
	wantBodyContains(t, rec, "Cannot delete your own account")

	rec = invoke(t, e, h.Delete, testReq{
		method: http.MethodDelete, path: "/api/users/2",
		uid: admin.ID, role: admin.Role,
		params: map[string]string{"id": fmt.Sprint(student.ID)},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "User deleted successfully")

	rec = invoke(t, e, h.Get, testReq{
		method: http.MethodGet, path: "/api/users/2",
		uid: admin.ID, role: admin.Role,
		params: map[string]string{"id": fmt.Sprint(student.ID)},
	})
	wantStatus(t, rec, http.StatusNotFound)
	wantBodyContains(t, rec, "User not found")
}

func TestAdminStats(t *testing.T) {
	e := newTestEcho()
	m := newMemStore()
	admin := seedUser(t, m, "admin@iips.edu", model.RoleAdmin)
	seedEvent(m, 0, 10, 0)
	h := NewAdminUserHandler(m)

	rec := invoke(t, e, h.Stats, testReq{method: http.MethodGet, path: "/api/users/stats", uid: admin.ID, role: admin.Role})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, `"totalUsers":1`)
	wantBodyContains(t, rec, `"totalEvents":1`)
	wantBodyContains(t, rec, `"totalBookings":0`)
}
