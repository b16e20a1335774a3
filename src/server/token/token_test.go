package token_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cockroachdb/errors/markers"
	"github.com/heartsync/heartsync-be/src/server/token"
)

var _ = Describe("Session tokens", func() {
	var issuer token.Issuer

	BeforeEach(func() {
		issuer = token.NewIssuer("sufficiently-secret")
	})

	It("round-trips the user's identity", func() {
		signed, err := issuer.Issue("user-id", "some_username")
		Expect(err).NotTo(HaveOccurred())

		claims, err := issuer.Verify(signed)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal("user-id"))
		Expect(claims.Username).To(Equal("some_username"))
	})

	It("rejects a token signed with another secret", func() {
		otherIssuer := token.NewIssuer("a-different-secret")
		signed, err := otherIssuer.Issue("user-id", "some_username")
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Verify(signed)
		Expect(err).To(HaveOccurred())
		Expect(markers.Is(err, token.InvalidTokenMark)).To(BeTrue())
	})

	It("rejects a garbled token", func() {
		_, err := issuer.Verify("definitely.not.a.token")
		Expect(err).To(HaveOccurred())
		Expect(markers.Is(err, token.InvalidTokenMark)).To(BeTrue())
	})
})
