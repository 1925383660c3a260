package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blobview/internal/config"
	"blobview/internal/model"
)

func TestTransformationAdmin(t *testing.T) {
	wrapper, tr := setup(t, true)
	admin := &TransformationAdmin{Relation: wrapper.Relation, Transformations: tr}

	w := httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/transformation", strings.NewReader(`{"db":"shop","table":"product","column":"photo","mimetype":"image_png","transformationOptions":"'; charset=binary'"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transformation?db=shop&table=product", nil))
	var body struct {
		Code string                 `json:"code"`
		Data []model.Transformation `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "0" || len(body.Data) != 1 || body.Data[0].Column != "photo" || body.Data[0].MimeType != "image_png" {
		t.Fatalf("unexpected list %s", w.Body.String())
	}

	// 配置后的 MIME 类型对输出生效
	w = serve(wrapper, map[string][]string{"db": {"shop"}, "table": {"product"}, "transform_key": {"name"}})
	if v := w.Header().Get("Content-Type"); v != DefaultContentType {
		t.Fatal("unexpected Content-Type " + v)
	}
	w = serve(wrapper, map[string][]string{"db": {"shop"}, "table": {"product"}, "transform_key": {"photo"}})
	if v := w.Header().Get("Content-Type"); v != "image/png; charset=binary" {
		t.Fatal("unexpected Content-Type " + v)
	}

	w = httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/transformation?db=shop&table=product&column=photo", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transformation?db=shop&table=product", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 0 {
		t.Fatalf("expected empty list, got %s", w.Body.String())
	}
}

func TestTransformationAdminValidation(t *testing.T) {
	wrapper, tr := setup(t, true)
	admin := &TransformationAdmin{Relation: wrapper.Relation, Transformations: tr}

	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/transformation?db=shop", nil),
		httptest.NewRequest(http.MethodPost, "/transformation", strings.NewReader(`{"db":"shop","table":"product"}`)),
		httptest.NewRequest(http.MethodPost, "/transformation", strings.NewReader(`{`)),
		httptest.NewRequest(http.MethodDelete, "/transformation?db=shop&table=product", nil),
	} {
		w := httptest.NewRecorder()
		admin.ServeHTTP(w, r)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", r.Method, r.URL, w.Code)
		}
	}

	w := httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/transformation", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestTransformationAdminDisabled(t *testing.T) {
	wrapper, tr := setup(t, false)
	admin := &TransformationAdmin{Relation: wrapper.Relation, Transformations: tr}

	w := httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transformation?db=shop&table=product", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAuthenticate(t *testing.T) {
	called := false
	next := authenticate(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	config.Authorization = "admin:secret"
	defer func() {
		config.Authorization = ""
	}()

	w := httptest.NewRecorder()
	next(w, httptest.NewRequest(http.MethodGet, "/transformation/wrapper", nil))
	if called || w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("WWW-Authenticate"), "Digest ") {
		t.Fatal("missing digest challenge")
	}

	config.Authorization = ""
	next(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/transformation/wrapper", nil))
	if !called {
		t.Fatal("expected handler to be called without authorization configured")
	}
}
