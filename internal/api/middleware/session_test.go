package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-session-secret")

func runSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	mw := Session(SessionConfig{Secret: testSecret, CookieSecure: true})
	handler := mw(func(c echo.Context) error {
		seen = SessionID(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return seen, rec
}

func TestSession_MintsAnonymousSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sid, rec := runSession(t, req)

	if _, err := uuid.Parse(sid); err != nil {
		t.Fatalf("expected uuid session id, got %q", sid)
	}

	token := rec.Header().Get(SessionHeader)
	if token == "" {
		t.Fatalf("expected minted token in %s header", SessionHeader)
	}
	parsed, err := ParseSessionToken(testSecret, token)
	if err != nil || parsed != sid {
		t.Fatalf("minted token does not carry the session id: %q %v", parsed, err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie {
		t.Fatalf("expected %s cookie, got %+v", SessionCookie, cookies)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure || cookies[0].SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookies[0])
	}
}

func TestSession_ReusesCookie(t *testing.T) {
	want := uuid.NewString()
	token, err := IssueSessionToken(testSecret, want, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	sid, rec := runSession(t, req)

	if sid != want {
		t.Fatalf("expected %s, got %s", want, sid)
	}
	if len(rec.Result().Cookies()) != 0 || rec.Header().Get(SessionHeader) != "" {
		t.Fatalf("a valid session must not be re-issued")
	}
}

func TestSession_HeaderWinsOverCookie(t *testing.T) {
	fromHeader := uuid.NewString()
	headerToken, _ := IssueSessionToken(testSecret, fromHeader, time.Now())
	cookieToken, _ := IssueSessionToken(testSecret, uuid.NewString(), time.Now())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, headerToken)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookieToken})
	sid, _ := runSession(t, req)

	if sid != fromHeader {
		t.Fatalf("expected header session %s, got %s", fromHeader, sid)
	}
}

func TestSession_ForgedTokenIsReplaced(t *testing.T) {
	victim := uuid.NewString()
	forged, _ := IssueSessionToken([]byte("someone-else"), victim, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, forged)
	sid, rec := runSession(t, req)

	if sid == victim || sid == "" {
		t.Fatalf("forged session must not be adopted, got %q", sid)
	}
	if rec.Header().Get(SessionHeader) == "" {
		t.Fatalf("expected a fresh token")
	}
}

func TestParseSessionToken_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sid": uuid.NewString()})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := ParseSessionToken(testSecret, signed); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}
}

func TestParseSessionToken_RejectsNonUUID(t *testing.T) {
	signed, _ := IssueSessionToken(testSecret, "../../admin", time.Now())

	if _, err := ParseSessionToken(testSecret, signed); err == nil {
		t.Fatalf("expected non-uuid session id to be rejected")
	}
}
