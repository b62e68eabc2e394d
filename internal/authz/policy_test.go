package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/file-vault-service/internal/domain"
)

const (
	ownerID = domain.UserID("owner")
	otherID = domain.UserID("other")
)

func publicFile() *domain.File {
	return &domain.File{ID: "f1", OwnerID: ownerID, Visibility: domain.VisibilityPublic}
}

func privateFile() *domain.File {
	return &domain.File{ID: "f2", OwnerID: ownerID, Visibility: domain.VisibilityPrivate}
}

// TestAuthorize_DecisionTable enumerates every operation against every
// requester and target combination.
func TestAuthorize_DecisionTable(t *testing.T) {
	anonymous := Anonymous()
	asOwner := Authenticated(ownerID)
	asOther := Authenticated(otherID)

	cases := []struct {
		name      string
		requester Requester
		op        Operation
		file      *domain.File
		want      error
	}{
		// upload: any authenticated user, never anonymous
		{"upload anonymous", anonymous, OpUpload, nil, ErrUnauthenticated},
		{"upload authenticated", asOwner, OpUpload, nil, nil},

		// list-mine: authenticated only
		{"list mine anonymous", anonymous, OpListMine, nil, ErrUnauthenticated},
		{"list mine authenticated", asOwner, OpListMine, nil, nil},

		// list-public: open to everyone
		{"list public anonymous", anonymous, OpListPublic, nil, nil},
		{"list public authenticated", asOther, OpListPublic, nil, nil},

		// download: public files are readable unconditionally
		{"download public anonymous", anonymous, OpDownload, publicFile(), nil},
		{"download public owner", asOwner, OpDownload, publicFile(), nil},
		{"download public non-owner", asOther, OpDownload, publicFile(), nil},

		// download: private files require the owner
		{"download private anonymous", anonymous, OpDownload, privateFile(), ErrUnauthenticated},
		{"download private owner", asOwner, OpDownload, privateFile(), nil},
		{"download private non-owner", asOther, OpDownload, privateFile(), ErrForbidden},

		// download: a missing file is not-found for everyone
		{"download missing anonymous", anonymous, OpDownload, nil, ErrNotFound},
		{"download missing owner", asOwner, OpDownload, nil, ErrNotFound},

		// delete: owner only, and never anonymous
		{"delete public owner", asOwner, OpDelete, publicFile(), nil},
		{"delete public non-owner", asOther, OpDelete, publicFile(), ErrForbidden},
		{"delete private owner", asOwner, OpDelete, privateFile(), nil},
		{"delete private non-owner", asOther, OpDelete, privateFile(), ErrForbidden},
		{"delete private anonymous", anonymous, OpDelete, privateFile(), ErrUnauthenticated},
		{"delete missing", asOwner, OpDelete, nil, ErrNotFound},
		{"delete missing anonymous", anonymous, OpDelete, nil, ErrNotFound},

		// unknown operations never pass
		{"unknown op", asOwner, Operation("publish"), publicFile(), ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Authorize(tc.requester, tc.op, tc.file)
			if tc.want == nil {
				assert.NoError(t, got)
			} else {
				assert.ErrorIs(t, got, tc.want)
			}
		})
	}
}

// TestAuthorize_PureFunction verifies decisions do not mutate the file.
func TestAuthorize_PureFunction(t *testing.T) {
	file := privateFile()
	before := *file

	_ = Authorize(Authenticated(otherID), OpDownload, file)
	_ = Authorize(Anonymous(), OpDelete, file)

	assert.Equal(t, before, *file)
}

// TestAuthorize_OwnershipIsTypedEquality ensures ownership never matches a
// different id that happens to share a prefix or casing.
func TestAuthorize_OwnershipIsTypedEquality(t *testing.T) {
	file := privateFile()

	assert.ErrorIs(t, Authorize(Authenticated(domain.UserID("OWNER")), OpDownload, file), ErrForbidden)
	assert.ErrorIs(t, Authorize(Authenticated(domain.UserID("owner ")), OpDownload, file), ErrForbidden)
	assert.NoError(t, Authorize(Authenticated(ownerID), OpDownload, file))
}
