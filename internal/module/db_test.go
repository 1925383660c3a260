package module

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"blobview/internal/util"
)

func createShop(t *testing.T, dir string) {
	db, err := sql.Open("sqlite3", filepath.Join(dir, "shop.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		create table product (id integer primary key, name text not null, photo blob);
		insert into product (id, name, photo) values (1, 'widget', x'00ff10'), (2, 'gadget', null);
	`); err != nil {
		t.Fatal(err)
	}
}

func TestBackquote(t *testing.T) {
	if v := Backquote("product"); v != "`product`" {
		t.Fatal("unexpected " + v)
	}
	if v := Backquote("a`b"); v != "`a``b`" {
		t.Fatal("unexpected " + v)
	}
}

func TestSelectDb(t *testing.T) {
	dir := t.TempDir()
	createShop(t, dir)

	client := NewDatabaseClient(dir)
	defer client.Close()

	if _, err := client.SelectDb("../shop"); err == nil {
		t.Fatal("expected invalid name error")
	} else if status, _ := util.StatusOf(err); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}

	if _, err := client.SelectDb("missing"); err == nil {
		t.Fatal("expected not found error")
	} else if status, _ := util.StatusOf(err); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}

	db, err := client.SelectDb("shop")
	if err != nil {
		t.Fatal(err)
	}
	if db.Name() != "shop" {
		t.Fatal("unexpected name " + db.Name())
	}
}

func TestCheckTable(t *testing.T) {
	dir := t.TempDir()
	createShop(t, dir)

	client := NewDatabaseClient(dir)
	defer client.Close()

	db, err := client.SelectDb("shop")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.CheckTable(context.Background(), "product"); err != nil {
		t.Fatal(err)
	}
	err = db.CheckTable(context.Background(), "order")
	if status, _ := util.StatusOf(err); err == nil || status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestFetchRow(t *testing.T) {
	dir := t.TempDir()
	createShop(t, dir)

	client := NewDatabaseClient(dir)
	defer client.Close()

	db, err := client.SelectDb("shop")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	row, err := db.FetchRow(ctx, "product", nil)
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprintf("%s", row["name"]) != "widget" {
		t.Fatalf("expected first row, got %v", row)
	}
	if b, ok := row["photo"].([]byte); !ok || string(b) != "\x00\xff\x10" {
		t.Fatalf("unexpected photo %v", row["photo"])
	}

	clause := "`id` = 2"
	row, err = db.FetchRow(ctx, "product", &clause)
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprintf("%s", row["name"]) != "gadget" || row["photo"] != nil {
		t.Fatalf("unexpected row %v", row)
	}

	clause = "`id` = 3"
	row, err = db.FetchRow(ctx, "product", &clause)
	if err != nil {
		t.Fatal(err)
	}
	if row != nil {
		t.Fatalf("expected no row, got %v", row)
	}

	clause = "no_such_column = 1"
	if _, err = db.FetchRow(ctx, "product", &clause); err == nil {
		t.Fatal("expected sql error")
	}
}
