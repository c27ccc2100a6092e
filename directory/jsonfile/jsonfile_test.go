package jsonfile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/apolloveritas/dirsync/dirsync"
)

func TestLoadFailures(t *testing.T) {
	ctx := context.Background()

	inst := New("")
	if users, err := inst.Users(ctx); users != nil || err == nil || !strings.Contains(err.Error(), "unable to load users.json") {
		t.Errorf("expected to fail loading users from an empty root path, received %s", err)
	}

	inst = New("xxx")
	if _, err := inst.Groups(ctx); err == nil || !strings.Contains(err.Error(), "unable to load users.json") {
		t.Errorf("expected to fail loading from an invalid root path, received %s", err)
	}
}

func TestSnapshotReads(t *testing.T) {
	ctx := context.Background()
	inst := New("_testdata")

	users, err := inst.Users(ctx)
	if err != nil {
		t.Fatalf("expected valid result, received error %s", err)
	}
	if len(users) != 3 {
		t.Errorf("expected 3 users, received %d", len(users))
	}

	groups, err := inst.Groups(ctx)
	if err != nil {
		t.Fatalf("expected valid result, received error %s", err)
	}
	if len(groups) != 2 {
		t.Errorf("expected 2 groups, received %d", len(groups))
	}

	user, err := inst.UserByName(ctx, "jdoe")
	if err != nil || user == nil {
		t.Fatalf("expected to find jdoe, received error %s", err)
	}
	if user.Mail != "jdoe@district.org" || user.EmployeeID != "E1001" {
		t.Error("the incorrect user was returned")
	}

	if _, err := inst.UserByMail(ctx, "nobody@district.org"); !errors.Is(err, dirsync.ErrNotFound) {
		t.Errorf("expected not found, received %s", err)
	}

	group, err := inst.GroupByName(ctx, "math-department")
	if err != nil || group == nil {
		t.Fatalf("expected to find math-department, received error %s", err)
	}
	if len(group.Members) != 2 {
		t.Errorf("expected 2 members, received %d", len(group.Members))
	}

	if _, err := inst.CreateGroup(ctx, dirsync.Group{
		ID:        "CN=Math Department,OU=Archive,DC=district,DC=local",
		ShortName: "math-department",
	}); err != nil {
		t.Fatalf("expected create to succeed, received %s", err)
	}
	if _, err := inst.GroupByName(ctx, "math-department"); !errors.Is(err, dirsync.ErrAmbiguous) {
		t.Errorf("expected ambiguous result for duplicated short name, received %s", err)
	}
}

func TestInMemoryMutations(t *testing.T) {
	ctx := context.Background()
	inst := New("_testdata")

	if err := inst.MutateUser(ctx, "CN=Jane Doe,OU=Teachers,OU=Staff,DC=district,DC=local",
		dirsync.WithUserTitle("Department Head")); err != nil {
		t.Fatalf("expected mutate to succeed, received %s", err)
	}
	user, err := inst.UserByName(ctx, "jdoe")
	if err != nil {
		t.Fatal(err)
	}
	if user.Title != "Department Head" {
		t.Errorf("expected mutated title, received %s", user.Title)
	}

	groupID := "CN=All Staff,OU=Groups,DC=district,DC=local"
	newMember := "CN=Jane Doe,OU=Teachers,OU=Staff,DC=district,DC=local"
	if err := inst.AddMembers(ctx, groupID, newMember); err != nil {
		t.Fatal(err)
	}
	// Adding the same member twice must not duplicate it.
	if err := inst.AddMembers(ctx, groupID, newMember); err != nil {
		t.Fatal(err)
	}
	group, err := inst.GroupByID(ctx, groupID)
	if err != nil {
		t.Fatal(err)
	}
	if len(group.Members) != 3 {
		t.Errorf("expected 3 members after add, received %d", len(group.Members))
	}

	if err := inst.RemoveMembers(ctx, groupID, newMember); err != nil {
		t.Fatal(err)
	}
	group, _ = inst.GroupByID(ctx, groupID)
	if len(group.Members) != 2 {
		t.Errorf("expected 2 members after remove, received %d", len(group.Members))
	}

	if _, err := inst.CreateUser(ctx, dirsync.User{ID: user.ID}); !errors.Is(err, dirsync.ErrDuplicate) {
		t.Errorf("expected duplicate error, received %s", err)
	}

	// Mutations never reach the fixture files.
	fresh := New("_testdata")
	freshUser, err := fresh.UserByName(ctx, "jdoe")
	if err != nil {
		t.Fatal(err)
	}
	if freshUser.Title != "Teacher" {
		t.Errorf("fixture file was modified, title is %s", freshUser.Title)
	}
}

func TestFromJson(t *testing.T) {
	inst, err := FromJson([]byte(`{"dataDirectory": "_testdata"}`))
	if err != nil {
		t.Fatalf("expected valid provider, received %s", err)
	}
	if inst.dataDirectory != "_testdata" {
		t.Error("the data directory was not read from configuration")
	}

	if _, err := FromJson([]byte(`{`)); err == nil {
		t.Error("expected invalid json to fail")
	}
}
