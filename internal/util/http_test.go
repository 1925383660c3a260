package util

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
)

func md5Hex(s string) string {
	h := md5.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

func digestHeader(username, password, method, uri string) string {
	realm, nonce, nc, cnonce, qop := "blobview", "abc", "00000001", "xyz", "auth"
	h1 := md5Hex(username + ":" + realm + ":" + password)
	h2 := md5Hex(method + ":" + uri)
	response := md5Hex(h1 + ":" + nonce + ":" + nc + ":" + cnonce + ":" + qop + ":" + h2)
	return fmt.Sprintf(`Digest username="%s", realm="%s", nonce="%s", uri="%s", qop=%s, nc=%s, cnonce="%s", response="%s"`, username, realm, nonce, uri, qop, nc, cnonce, response)
}

func TestDigestAuth(t *testing.T) {
	a := &DigestAuth{}

	if !a.VerifyWithMd5(digestHeader("admin", "secret", "GET", "/transformation"), "GET", "admin:secret") {
		t.Fatal("expected verification to pass")
	}
	if a.VerifyWithMd5(digestHeader("admin", "wrong", "GET", "/transformation"), "GET", "admin:secret") {
		t.Fatal("expected wrong password to fail")
	}
	if a.VerifyWithMd5(digestHeader("admin", "secret", "GET", "/transformation"), "POST", "admin:secret") {
		t.Fatal("expected wrong method to fail")
	}
	if a.VerifyWithMd5("", "GET", "admin:secret") {
		t.Fatal("expected empty header to fail")
	}
	if a.VerifyWithMd5(digestHeader("admin", "secret", "GET", "/"), "GET", "admin") {
		t.Fatal("expected malformed userpass to fail")
	}
}

func TestDigestChallenge(t *testing.T) {
	c := (&DigestAuth{}).Challenge("blobview")
	if !strings.HasPrefix(c, `Digest realm="blobview", nonce="`) || !strings.HasSuffix(c, `qop="auth"`) {
		t.Fatal("unexpected challenge " + c)
	}
	if len((&DigestAuth{}).Random(16)) != 16 {
		t.Fatal("unexpected random length")
	}
}

func TestQueryParams(t *testing.T) {
	p := QueryParams{}
	p.Values = map[string][]string{"db": {"shop"}, "table": {""}}
	if p.GetOrDefault("db", "x") != "shop" || p.GetOrDefault("table", "x") != "x" || p.GetOrDefault("none", "y") != "y" {
		t.Fatal("unexpected GetOrDefault")
	}
}
