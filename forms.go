package sitekit

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// FormRequest is the body accepted by POST /api/forms/:form, as JSON or
// url-encoded form data.
type FormRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Company string `json:"company" form:"company"`
	Message string `json:"message" form:"message"`
	Page    string `json:"page" form:"page"`
	Lang    string `json:"lang" form:"lang"`
	// Website is a honeypot. Real visitors never see the field.
	Website string `json:"website" form:"website"`
}

const (
	maxNameLen    = 200
	maxCompanyLen = 200
	maxMessageLen = 5000
	maxFormPath   = 2048
)

// validate trims the request in place and checks it against the limits.
func (r *FormRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Company = strings.TrimSpace(r.Company)
	r.Message = strings.TrimSpace(r.Message)
	r.Page = strings.TrimSpace(r.Page)

	switch {
	case r.Email == "":
		return fmt.Errorf("email is required")
	case utf8.RuneCountInString(r.Name) > maxNameLen:
		return fmt.Errorf("name exceeds maximum length of %d", maxNameLen)
	case utf8.RuneCountInString(r.Company) > maxCompanyLen:
		return fmt.Errorf("company exceeds maximum length of %d", maxCompanyLen)
	case utf8.RuneCountInString(r.Message) > maxMessageLen:
		return fmt.Errorf("message exceeds maximum length of %d", maxMessageLen)
	case len(r.Page) > maxFormPath:
		return fmt.Errorf("page exceeds maximum length of %d", maxFormPath)
	}
	addr, err := mail.ParseAddress(r.Email)
	if err != nil {
		return fmt.Errorf("email is invalid")
	}
	r.Email = addr.Address
	if r.Lang != "" {
		code, err := CanonicalLang(r.Lang)
		if err != nil {
			return fmt.Errorf("lang is invalid")
		}
		r.Lang = code
	}
	return nil
}

func (a *App) handleFormSubmit(c echo.Context) error {
	if !a.formLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, errorBody("Too many requests"))
	}
	page, ok := a.forms[c.Param("form")]
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("Form not found"))
	}

	var req FormRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}
	if req.Website != "" {
		return c.JSON(http.StatusAccepted, map[string]string{"status": "received"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}
	if req.Page == "" {
		req.Page = page.Path
	}

	id, err := a.Store.SaveSubmission(c.Request().Context(), Submission{
		Form:    page.Form,
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Message: req.Message,
		Page:    req.Page,
		Lang:    req.Lang,
	})
	if err != nil {
		c.Logger().Errorf("save %s submission: %v", page.Form, err)
		return c.JSON(http.StatusInternalServerError, errorBody("Internal server error"))
	}
	return c.JSON(http.StatusCreated, map[string]any{"status": "received", "id": id})
}
