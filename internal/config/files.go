package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/prscan/internal/github"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// RepoEntry describes one known repository.
type RepoEntry struct {
	RepositoryName string `json:"repositoryName" yaml:"repositoryName" toml:"repositoryName"`
	GitHubRepoURL  string `json:"gitHubRepoUrl" yaml:"gitHubRepoUrl" toml:"gitHubRepoUrl"`
	AzDoRepoURL    string `json:"azDoRepoUrl,omitempty" yaml:"azDoRepoUrl,omitempty" toml:"azDoRepoUrl,omitempty"`
}

// RepoList is the repository list file.
type RepoList struct {
	Repos []RepoEntry `json:"repos" yaml:"repos" toml:"repos"`
}

// RangeEntry is one commit range to analyze.
type RangeEntry struct {
	RepositoryName string `json:"repositoryName" yaml:"repositoryName" toml:"repositoryName"`
	OldCommit      string `json:"oldCommit" yaml:"oldCommit" toml:"oldCommit"`
	NewCommit      string `json:"newCommit" yaml:"newCommit" toml:"newCommit"`
	// UseGitHub defaults to true when absent.
	UseGitHub *bool `json:"useGitHub,omitempty" yaml:"useGitHub,omitempty" toml:"useGitHub,omitempty"`
}

// OnGitHub reports whether the range should be resolved against GitHub.
func (r RangeEntry) OnGitHub() bool {
	return r.UseGitHub == nil || *r.UseGitHub
}

// RangeFile is the range configuration file.
type RangeFile struct {
	TestRepos []RangeEntry `json:"testRepos" yaml:"testRepos" toml:"testRepos"`
}

// decodeFile reads path and decodes it by extension: .yaml/.yml, .toml, or JSON otherwise.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	case ".toml":
		return toml.Unmarshal(data, v)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		return dec.Decode(v)
	}
}

// LoadRepoList reads the repository list file.
func LoadRepoList(path string) (RepoList, error) {
	var list RepoList
	if err := decodeFile(path, &list); err != nil {
		return RepoList{}, &ConfigError{Field: "repoListFile", Reason: fmt.Sprintf("loading %s: %v", path, err)}
	}
	return list, nil
}

// LoadRanges reads the range file. A file with no ranges is an error.
func LoadRanges(path string) (RangeFile, error) {
	var rf RangeFile
	if err := decodeFile(path, &rf); err != nil {
		return RangeFile{}, &ConfigError{Field: "rangesFile", Reason: fmt.Sprintf("loading %s: %v", path, err)}
	}
	if len(rf.TestRepos) == 0 {
		return RangeFile{}, &ConfigError{Field: "rangesFile", Reason: fmt.Sprintf("no ranges defined in %s", path)}
	}
	return rf, nil
}

// Target is a range ready to be analyzed: the display name from the range
// file and the owner/repo coordinates to query.
type Target struct {
	Name      string
	Owner     string
	Repo      string
	OldCommit string
	NewCommit string
}

// Targets turns the ranges into analysis targets, in file order. Ranges not
// hosted on GitHub are returned separately so the caller can report them.
// Coordinates come from the matching repository list entry's GitHub URL when
// one parses, else from the range's repository name; a name that is not
// "owner/repo" leaves them empty and fails later for that range only.
func Targets(ranges RangeFile, repos RepoList) (targets []Target, skipped []RangeEntry) {
	byName := make(map[string]RepoEntry, len(repos.Repos))
	for _, r := range repos.Repos {
		byName[strings.ToLower(r.RepositoryName)] = r
	}

	for _, rg := range ranges.TestRepos {
		if !rg.OnGitHub() {
			skipped = append(skipped, rg)
			continue
		}
		t := Target{Name: rg.RepositoryName, OldCommit: rg.OldCommit, NewCommit: rg.NewCommit}
		if entry, ok := byName[strings.ToLower(rg.RepositoryName)]; ok && entry.GitHubRepoURL != "" {
			if owner, repo, err := github.ParseRemoteURL(entry.GitHubRepoURL); err == nil {
				t.Owner, t.Repo = owner, repo
			}
		}
		if t.Owner == "" {
			if owner, repo, err := github.SplitRepository(rg.RepositoryName); err == nil {
				t.Owner, t.Repo = owner, repo
			}
		}
		targets = append(targets, t)
	}
	return targets, skipped
}
