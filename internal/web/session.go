package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const sessionName = "portfolio"

const keyVisitor = "visitor"

// visitor is the per-browser identity carried in the session cookie. It
// scopes page mounts so one browser cannot drive another's header.
type visitor struct {
	id   string
	sess *sessions.Session
}

func (s *Server) visitor(c *gin.Context) *visitor {
	sess, err := s.sessions.Get(c.Request, sessionName)
	if err != nil {
		// Cookies signed with an old secret decode to a fresh session.
		s.logger.Debug("discarding unreadable session", "error", err)
	}

	id, _ := sess.Values[keyVisitor].(string)
	if id == "" {
		id = uuid.NewString()
		sess.Values[keyVisitor] = id
	}
	return &visitor{id: id, sess: sess}
}

// save writes the session cookie. It must run before the response body.
// The cookie is Secure only when the request arrived over HTTPS.
func (s *Server) save(c *gin.Context, v *visitor) error {
	if v.sess.Options == nil {
		v.sess.Options = &sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
	}
	v.sess.Options.Secure = s.isHTTPS(c.Request)
	return v.sess.Save(c.Request, c.Writer)
}

func (s *Server) isHTTPS(r *http.Request) bool {
	if s.cfg.Server.TrustForwardedProto {
		if proto := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); proto == "http" || proto == "https" {
			return proto == "https"
		}
	}
	return r.TLS != nil
}

// mountKey is the scroll bus key for one rendered page. Keys are scoped by
// visitor, so each mount owns its own feed.
func mountKey(visitorID, mount string) string {
	return visitorID + "/" + mount
}

// parseMount reads the page instance id a request belongs to.
func parseMount(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Query("mount"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
