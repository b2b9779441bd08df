package gitctx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/prscan/internal/github"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotRepository is returned when no git repository encloses the path.
var ErrNotRepository = errors.New("not a git repository")

// RefNotFoundError is returned when a ref cannot be resolved locally.
type RefNotFoundError struct {
	Ref string
}

func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("ref %q not found in local repository", e.Ref)
}

// Repo is an opened local repository.
type Repo struct {
	repo *git.Repository
	root string
}

// Open opens the repository enclosing path, walking up to find .git.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &Repo{repo: repo, root: root}, nil
}

// Root returns the worktree root, or the opened path for bare repositories.
func (r *Repo) Root() string { return r.root }

// RemoteURL returns the first URL of the named remote.
func (r *Repo) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("remote %q: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}
	return urls[0], nil
}

// Coordinates returns the owner and repository name of the named remote.
func (r *Repo) Coordinates(remote string) (owner, repo string, err error) {
	url, err := r.RemoteURL(remote)
	if err != nil {
		return "", "", err
	}
	return github.ParseRemoteURL(url)
}

// ResolveRef returns the full commit hash for a branch, tag, hash prefix or
// revision expression such as HEAD~2.
func (r *Repo) ResolveRef(ref string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", &RefNotFoundError{Ref: ref}
	}
	return hash.String(), nil
}

// Head returns the commit hash and short branch name of HEAD. Branch is empty
// when HEAD is detached.
func (r *Repo) Head() (sha, branch string, err error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", "", fmt.Errorf("reading HEAD: %w", err)
	}
	if ref.Name().IsBranch() {
		branch = ref.Name().Short()
	}
	return ref.Hash().String(), branch, nil
}

// LocalCommit is a commit as recorded in the local object store.
type LocalCommit struct {
	SHA     string
	Subject string
	Author  string
	Parents int
}

// CommitsBetween lists the commits reachable from newRef but not from oldRef,
// oldest first, using only local history.
func (r *Repo) CommitsBetween(oldRef, newRef string) ([]LocalCommit, error) {
	oldHash, err := r.repo.ResolveRevision(plumbing.Revision(oldRef))
	if err != nil {
		return nil, &RefNotFoundError{Ref: oldRef}
	}
	newHash, err := r.repo.ResolveRevision(plumbing.Revision(newRef))
	if err != nil {
		return nil, &RefNotFoundError{Ref: newRef}
	}

	reachable := make(map[plumbing.Hash]bool)
	oldIter, err := r.repo.Log(&git.LogOptions{From: *oldHash})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", oldRef, err)
	}
	err = oldIter.ForEach(func(c *object.Commit) error {
		reachable[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", oldRef, err)
	}

	newIter, err := r.repo.Log(&git.LogOptions{From: *newHash})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", newRef, err)
	}
	var commits []LocalCommit
	seen := make(map[plumbing.Hash]bool)
	err = newIter.ForEach(func(c *object.Commit) error {
		// Keep walking past reachable commits; merges may lead to unseen ones.
		if seen[c.Hash] || reachable[c.Hash] {
			return nil
		}
		seen[c.Hash] = true
		commits = append(commits, LocalCommit{
			SHA:     c.Hash.String(),
			Subject: strings.SplitN(c.Message, "\n", 2)[0],
			Author:  c.Author.Name,
			Parents: c.NumParents(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", newRef, err)
	}

	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, nil
}
