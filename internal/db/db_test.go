// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package db_test

import (
	"testing"

	testlibDB "github.com/brujula-dev/brujula/testlib/db"
)

type widget struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func (widget) TableName() string { return "widgets" }

func TestCreateTableAndInsert(t *testing.T) {
	env := testlibDB.SetupDBEnv(t)
	defer env.Close()

	tableMap := env.DB.AddTable(widget{})
	tableMap.SetKeys(false, "id")
	if err := env.DB.CreateTable(tableMap); err != nil {
		t.Fatal(err)
	}
	if err := env.DB.Insert(&widget{ID: "1", Name: "one"}); err != nil {
		t.Fatal(err)
	}

	var out []widget
	if _, err := env.DB.Select(&out, "SELECT * FROM widgets"); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "one" {
		t.Errorf("unexpected rows: %v", out)
	}
}

func TestCreateTableIsIdempotent(t *testing.T) {
	env := testlibDB.SetupDBEnv(t)
	defer env.Close()

	tableMap := env.DB.AddTable(widget{})
	tableMap.SetKeys(false, "id")
	if err := env.DB.CreateTable(tableMap); err != nil {
		t.Fatal(err)
	}
	if err := env.DB.CreateTable(tableMap); err != nil {
		t.Errorf("IF NOT EXISTS must make re-creation safe: %v", err)
	}
}
