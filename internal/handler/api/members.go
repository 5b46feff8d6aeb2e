package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

type MemberHandler struct {
	members MembershipService
}

func NewMemberHandler(members MembershipService) *MemberHandler {
	return &MemberHandler{members: members}
}

func (h *MemberHandler) List(c echo.Context) error {
	members, err := h.members.List(c.Request().Context())
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, members)
}

func (h *MemberHandler) Invite(c echo.Context) error {
	m, err := h.members.Invite(c.Request().Context(), validation.Get[validation.InviteMember](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusCreated, m)
}

func (h *MemberHandler) Update(c echo.Context) error {
	userID := validation.Get[validation.MemberParams](c).UserID
	m, err := h.members.Update(c.Request().Context(), userID, validation.Get[validation.UpdateMember](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, m)
}

func (h *MemberHandler) Deactivate(c echo.Context) error {
	userID := validation.Get[validation.MemberParams](c).UserID
	m, err := h.members.Deactivate(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, m)
}
