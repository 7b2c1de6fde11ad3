package gitrepo

import (
	"fmt"
	"strings"
)

const (
	ownerRepositorySeparatorConstant          = "/"
	gitSuffixConstant                         = ".git"
	githubHostConstant                        = "github.com"
	httpsRemoteURLTemplateConstant            = "https://%s/%s/%s%s"
	authenticatedRemoteURLTemplateConstant    = "https://%s@%s/%s/%s%s"
	ownerRepositoryParseErrorTemplateConstant = "%s: %s"
	invalidOwnerRepositoryMessageConstant     = "expected owner/repository"
	requiredValueMessageConstant              = "value required"
)

// OwnerRepository identifies a GitHub repository as an owner and repository name pair.
type OwnerRepository struct {
	Owner      string
	Repository string
}

// OwnerRepositoryParseError indicates a repository identifier could not be parsed.
type OwnerRepositoryParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError OwnerRepositoryParseError) Error() string {
	return fmt.Sprintf(ownerRepositoryParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseOwnerRepository converts an "owner/repository" identifier into a structured representation.
func ParseOwnerRepository(identifier string) (OwnerRepository, error) {
	trimmedIdentifier := strings.TrimSpace(identifier)
	if len(trimmedIdentifier) == 0 {
		return OwnerRepository{}, OwnerRepositoryParseError{Input: identifier, Message: requiredValueMessageConstant}
	}

	segments := strings.Split(trimmedIdentifier, ownerRepositorySeparatorConstant)
	if len(segments) != 2 {
		return OwnerRepository{}, OwnerRepositoryParseError{Input: identifier, Message: invalidOwnerRepositoryMessageConstant}
	}

	owner := strings.TrimSpace(segments[0])
	repository := strings.TrimSpace(strings.TrimSuffix(segments[1], gitSuffixConstant))
	if len(owner) == 0 || len(repository) == 0 {
		return OwnerRepository{}, OwnerRepositoryParseError{Input: identifier, Message: invalidOwnerRepositoryMessageConstant}
	}

	return OwnerRepository{Owner: owner, Repository: repository}, nil
}

// String renders the identifier in its canonical "owner/repository" form.
func (ownerRepository OwnerRepository) String() string {
	return ownerRepository.Owner + ownerRepositorySeparatorConstant + ownerRepository.Repository
}

// RemoteURL formats the plain HTTPS remote URL for the repository.
func (ownerRepository OwnerRepository) RemoteURL() string {
	return fmt.Sprintf(httpsRemoteURLTemplateConstant, githubHostConstant, ownerRepository.Owner, ownerRepository.Repository, gitSuffixConstant)
}

// AuthenticatedRemoteURL formats an HTTPS remote URL embedding the provided token as credentials.
func (ownerRepository OwnerRepository) AuthenticatedRemoteURL(token string) string {
	return fmt.Sprintf(authenticatedRemoteURLTemplateConstant, token, githubHostConstant, ownerRepository.Owner, ownerRepository.Repository, gitSuffixConstant)
}
