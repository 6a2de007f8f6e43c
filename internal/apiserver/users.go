package apiserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/menulink/menulink/internal/auth"
	"github.com/menulink/menulink/internal/webserver"
	"github.com/menulink/menulink/pkg/common"
)

func registerUserRoutes() {
	webserver.PubPOST("/user/register", registerUser)
	webserver.PubPOST("/user/login", loginUser)
	webserver.PubPOST("/user/password/forgot", forgotPassword)
	webserver.PubPATCH("/user/password/reset", resetPassword)
	webserver.ApiGET("/user/profile", getUserProfile)
}

type registerPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func registerUser(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration parameters", nil)
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "MISSING_CREDENTIALS", "Email and password are required", nil)
	}

	application := GetApp(c)
	hash, err := application.Credentials().HashPassword(payload.Password)
	if err != nil {
		return failFromErr(c, err)
	}

	user, err := application.Users().Create(GetDB(c), payload.Email, hash)
	if err != nil {
		return failFromErr(c, err)
	}

	// notification is fire-and-forget, a mail outage never blocks signup
	application.Mailer().Enqueue(
		common.IfEmptyStr(application.GetSettingsStringValue("mail", "welcome_subject"), "Registered Successfully"),
		user.Email,
		common.IfEmptyStr(application.GetSettingsStringValue("mail", "welcome_body"), "Email registration done."),
	)
	return created(c, user)
}

type loginPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func loginUser(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}

	application := GetApp(c)
	user, err := application.Users().GetByEmail(GetDB(c), strings.TrimSpace(payload.Email))
	if err != nil || !application.Credentials().CheckPassword(payload.Password, user.Password) {
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Incorrect username or password", nil)
	}

	token, err := application.Credentials().IssueToken(auth.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, echo.Map{
		"access_token": token,
		"token_type":   "Bearer",
	})
}

type forgotPayload struct {
	Email string `json:"email" form:"email"`
}

func forgotPassword(c echo.Context) error {
	var payload forgotPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse parameters", nil)
	}

	application := GetApp(c)
	user, err := application.Users().GetByEmail(GetDB(c), strings.TrimSpace(payload.Email))
	if err == nil {
		token, terr := application.Credentials().IssueResetToken(user.Email)
		if terr == nil {
			application.Mailer().Enqueue("Password Reset", user.Email,
				"Use this token to reset your password: "+token)
		}
	}
	// uniform response, never reveals whether the email is registered
	return ok(c, echo.Map{"status": "If the email is registered, a reset token has been sent"})
}

type resetPayload struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

func resetPassword(c echo.Context) error {
	var payload resetPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse parameters", nil)
	}
	if payload.Password == "" {
		return fail(c, http.StatusBadRequest, "MISSING_PASSWORD", "New password is required", nil)
	}

	application := GetApp(c)
	email, err := application.Credentials().ResolveResetToken(payload.Token)
	if err != nil {
		return failFromErr(c, err)
	}

	db := GetDB(c)
	user, err := application.Users().GetByEmail(db, email)
	if err != nil {
		return failFromErr(c, err)
	}

	hash, err := application.Credentials().HashPassword(payload.Password)
	if err != nil {
		return failFromErr(c, err)
	}
	if err := application.Users().UpdatePassword(db, user, hash); err != nil {
		return failFromErr(c, err)
	}
	return ok(c, echo.Map{"status": "Password reset completely"})
}

func getUserProfile(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	user, err := GetApp(c).Users().Get(GetDB(c), ident.ID)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, user)
}
