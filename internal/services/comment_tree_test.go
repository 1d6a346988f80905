package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/agoradev/agora-backend/internal/types"
)

func TestLinkCommentTree_NestsRepliesUnderParents(t *testing.T) {
	root := &types.Comment{ID: uuid.New(), Body: "root", Status: types.CommentStatusVisible}
	child := &types.Comment{ID: uuid.New(), ParentID: &root.ID, Body: "child", Status: types.CommentStatusVisible}
	grandchild := &types.Comment{ID: uuid.New(), ParentID: &child.ID, Body: "grandchild", Status: types.CommentStatusVisible}
	sibling := &types.Comment{ID: uuid.New(), Body: "sibling", Status: types.CommentStatusVisible}

	roots, index := linkCommentTree([]*types.Comment{root, child, grandchild, sibling})

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if len(index) != 4 {
		t.Fatalf("expected 4 indexed nodes, got %d", len(index))
	}
	rootNode := index[root.ID]
	if len(rootNode.Replies) != 1 || rootNode.Replies[0].ID != child.ID {
		t.Fatalf("child not attached under root: %+v", rootNode.Replies)
	}
	childNode := index[child.ID]
	if len(childNode.Replies) != 1 || childNode.Replies[0].ID != grandchild.ID {
		t.Fatalf("grandchild not attached under child: %+v", childNode.Replies)
	}
	if len(index[sibling.ID].Replies) != 0 {
		t.Fatalf("sibling should have no replies")
	}
}

func TestLinkCommentTree_OrphansSurfaceAsRoots(t *testing.T) {
	missingParent := uuid.New()
	orphan := &types.Comment{ID: uuid.New(), ParentID: &missingParent, Body: "orphan", Status: types.CommentStatusVisible}

	roots, _ := linkCommentTree([]*types.Comment{orphan})
	if len(roots) != 1 || roots[0].ID != orphan.ID {
		t.Fatalf("orphan should surface as a root, got %+v", roots)
	}
}

func TestLinkCommentTree_EmptyInput(t *testing.T) {
	roots, index := linkCommentTree(nil)
	if len(roots) != 0 || len(index) != 0 {
		t.Fatalf("expected empty tree, got %d roots %d indexed", len(roots), len(index))
	}
}

func TestCommentNode_RemovedCommentKeepsPlaceLosesBody(t *testing.T) {
	comment := &types.Comment{
		ID:     uuid.New(),
		Body:   "something objectionable",
		Status: types.CommentStatusRemoved,
		User:   &types.User{Username: "mod-target"},
	}
	node := commentNode(comment)
	if node.Body != "[removed]" {
		t.Fatalf("removed comment body should be masked, got %q", node.Body)
	}
	if node.Status != types.CommentStatusRemoved {
		t.Fatalf("status should survive, got %q", node.Status)
	}
	if node.Username != "mod-target" {
		t.Fatalf("username should survive preload, got %q", node.Username)
	}
	if node.Replies == nil {
		t.Fatalf("replies must serialize as [], not null")
	}
}

func TestLinkCommentTree_DeepChainStaysLinear(t *testing.T) {
	// A 200-deep reply chain assembles without recursion or quadratic walks.
	const depth = 200
	comments := make([]*types.Comment, 0, depth)
	var parentID *uuid.UUID
	for i := 0; i < depth; i++ {
		c := &types.Comment{ID: uuid.New(), ParentID: parentID, Status: types.CommentStatusVisible}
		comments = append(comments, c)
		id := c.ID
		parentID = &id
	}

	roots, index := linkCommentTree(comments)
	if len(roots) != 1 {
		t.Fatalf("expected a single root, got %d", len(roots))
	}
	node := roots[0]
	for i := 1; i < depth; i++ {
		if len(node.Replies) != 1 {
			t.Fatalf("depth %d: expected one reply, got %d", i, len(node.Replies))
		}
		node = node.Replies[0]
	}
	if len(node.Replies) != 0 {
		t.Fatalf("leaf should have no replies")
	}
	if len(index) != depth {
		t.Fatalf("expected %d indexed nodes, got %d", depth, len(index))
	}
}
