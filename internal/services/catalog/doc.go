// Package catalog owns the StoryList: the full newest-first collection of
// stories known to the backend, and the submission of new ones.
package catalog
