// Package backendtest provides an in-memory equivalence backend for tests
package backendtest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/aethra/equivalencias/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "session"

// Request is one call received by the fake backend
type Request struct {
	Method string
	Path   string
}

// Failure forces the next matching request to fail with Status and Message
type Failure struct {
	Status  int
	Message string
}

// Server mimics the equivalence backend's REST contract
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	records  map[int64]models.Equivalencia
	nextID   int64
	users    map[string]string
	sessions map[string]string
	requests []Request
	failures map[string]Failure
}

// NewServer starts a backend with one admin account
func NewServer(username, password string) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		records:  make(map[int64]models.Equivalencia),
		nextID:   1,
		users:    map[string]string{username: password},
		sessions: make(map[string]string),
		failures: make(map[string]Failure),
	}

	r := gin.New()
	r.Use(s.record)
	api := r.Group("/api")
	{
		api.GET("/check-auth", s.checkAuth)
		api.POST("/login", s.login)
		api.POST("/logout", s.logout)
		api.GET("/equivalencias", s.list)
		api.POST("/equivalencias", s.requireSession, s.create)
		api.PUT("/equivalencias/:id", s.requireSession, s.update)
		api.DELETE("/equivalencias/:id", s.requireSession, s.delete)
	}

	s.Server = httptest.NewServer(r)
	return s
}

// Seed stores records, assigning ids in order
func (s *Server) Seed(records ...models.Equivalencia) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		rec.ID = s.nextID
		s.nextID++
		s.records[rec.ID] = rec
		ids = append(ids, rec.ID)
	}
	return ids
}

// Records returns the stored records ordered by id
func (s *Server) Records() []models.Equivalencia {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Requests returns every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests counts received requests with the given method and path
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// FailNext makes the next request for method+path fail
func (s *Server) FailNext(method, path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = f
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: c.Request.Method, Path: c.Request.URL.Path})
	key := c.Request.Method + " " + c.Request.URL.Path
	f, failing := s.failures[key]
	if failing {
		delete(s.failures, key)
	}
	s.mu.Unlock()

	if failing {
		if f.Message == "" {
			c.AbortWithStatusJSON(f.Status, gin.H{})
			return
		}
		c.AbortWithStatusJSON(f.Status, gin.H{"error": f.Message})
		return
	}
	c.Next()
}

func (s *Server) username(c *gin.Context) (string, bool) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.sessions[token]
	return name, ok
}

func (s *Server) requireSession(c *gin.Context) {
	if _, ok := s.username(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Acesso negado. Login necessário."})
		return
	}
	c.Next()
}

func (s *Server) checkAuth(c *gin.Context) {
	if name, ok := s.username(c); ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "username": name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

func (s *Server) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username e password são obrigatórios"})
		return
	}

	s.mu.Lock()
	want, ok := s.users[creds.Username]
	if !ok || want != creds.Password {
		s.mu.Unlock()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
		return
	}
	token := uuid.NewString()
	s.sessions[token] = creds.Username
	s.mu.Unlock()

	c.SetCookie(sessionCookie, token, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login realizado com sucesso", "username": creds.Username})
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso"})
}

func (s *Server) list(c *gin.Context) {
	s.mu.Lock()
	records := s.sortedLocked()
	s.mu.Unlock()
	c.JSON(http.StatusOK, records)
}

func (s *Server) create(c *gin.Context) {
	var form models.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if field := missingField(form); field != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campo " + field + " é obrigatório"})
		return
	}

	s.mu.Lock()
	rec := fromForm(s.nextID, form)
	s.records[rec.ID] = rec
	s.nextID++
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"message": "Equivalência criada com sucesso", "id": rec.ID})
}

func (s *Server) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var form models.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.records[id] = fromForm(id, form)
	c.JSON(http.StatusOK, gin.H{"message": "Equivalência atualizada com sucesso"})
}

func (s *Server) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	delete(s.records, id)
	c.JSON(http.StatusOK, gin.H{"message": "Equivalência deletada com sucesso"})
}

func (s *Server) sortedLocked() []models.Equivalencia {
	out := make([]models.Equivalencia, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func fromForm(id int64, f models.Form) models.Equivalencia {
	return models.Equivalencia{
		ID:              id,
		DisciplinaAdm:   f.DisciplinaAdm,
		CodigoAdm:       f.CodigoAdm,
		ChAdm:           models.FlexString(f.ChAdm),
		DisciplinaEquiv: f.DisciplinaEquiv,
		CodigoEquiv:     f.CodigoEquiv,
		CursoEquiv:      f.CursoEquiv,
		ChEquiv:         models.FlexString(f.ChEquiv),
		Justificativa:   f.Justificativa,
	}
}

func missingField(f models.Form) string {
	values := []struct{ key, value string }{
		{"disciplina_adm", f.DisciplinaAdm},
		{"codigo_adm", f.CodigoAdm},
		{"ch_adm", f.ChAdm},
		{"disciplina_equiv", f.DisciplinaEquiv},
		{"codigo_equiv", f.CodigoEquiv},
		{"curso_equiv", f.CursoEquiv},
		{"ch_equiv", f.ChEquiv},
		{"justificativa", f.Justificativa},
	}
	for _, v := range values {
		if v.value == "" {
			return v.key
		}
	}
	return ""
}
