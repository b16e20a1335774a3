package social_flow_test

import (
	"net/http"

	server_app "github.com/heartsync/heartsync-be/src/server/application"
	. "github.com/heartsync/heartsync-be/src/shared/testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SocialFlow", func() {
	var (
		server server_app.App
	)

	ServerHealthCheck := func() (int, error) {
		response, err := RequestFactory{
			Method:  "GET",
			Target:  ServerEndpoint("/health-check"),
			JSONObj: nil,
			Mods:    nil,
		}.Do()

		if err != nil {
			return 0, err
		}

		return response.StatusCode, nil
	}

	BeforeEach(func() {
		ResetDB(db)
	})

	BeforeEach(func() {
		By("Initializing Server")
		server = server_app.NewApp(ServerConfig(region))

		go func() {
			defer GinkgoRecover()

			err := server.Start()
			Expect(err).NotTo(HaveOccurred())
		}()

		Eventually(ServerHealthCheck).Should(Equal(http.StatusOK))
	})

	AfterEach(func() {
		Expect(server.Stop()).To(Succeed())
	})

	Describe("A new account posting and reading the feed", func() {
		It("runs the whole loop over the wire", func() {
			By("Registering the account")
			response := ExpectSuccess(RequestFactory{
				Method: "POST",
				Target: ServerEndpoint("/users"),
				JSONObj: map[string]string{
					"username": "fresh_user",
					"password": "fresh-password",
					"email":    "fresh@heartsync.com",
				},
			}.Do())
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			By("Logging in")
			response = ExpectSuccess(RequestFactory{
				Method: "POST",
				Target: ServerEndpoint("/login"),
				JSONObj: map[string]string{
					"username": "fresh_user",
					"password": "fresh-password",
				},
			}.Do())
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			login := DecodeJSON[struct {
				User struct {
					ID string `json:"id"`
				} `json:"user"`
				Token string `json:"token"`
			}](response.Body)
			Expect(login.Token).NotTo(BeEmpty())

			authHeader := "Bearer " + login.Token

			By("Creating a post")
			response = ExpectSuccess(RequestFactory{
				Method:  "POST",
				Target:  ServerEndpoint("/posts"),
				JSONObj: map[string]string{"content": "first day on heart-sync"},
				Mods:    RequestModifiers{WithAuthHeader(authHeader)},
			}.Do())
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			By("Reading it back from the feed")
			response = ExpectSuccess(RequestFactory{
				Method: "GET",
				Target: ServerEndpoint("/feed"),
				Mods:   RequestModifiers{WithAuthHeader(authHeader)},
			}.Do())
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			feed := DecodeJSON[[]struct {
				OwnerID string `json:"owner_id"`
				Content string `json:"content"`
			}](response.Body)

			Expect(feed).To(HaveLen(1))
			Expect(feed[0].OwnerID).To(Equal(login.User.ID))
			Expect(feed[0].Content).To(Equal("first day on heart-sync"))
		})
	})

	Describe("Following another user", func() {
		It("pulls their posts into the feed", func() {
			By("The other user posting")
			response := ExpectSuccess(RequestFactory{
				Method:  "POST",
				Target:  ServerEndpoint("/posts"),
				JSONObj: map[string]string{"content": "other user's workout log"},
				Mods:    RequestModifiers{WithUserCred(OtherUser)},
			}.Do())
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			By("Following them")
			response = ExpectSuccess(RequestFactory{
				Method: "POST",
				Target: ServerEndpoint("/users/" + OtherUser.ID + "/follow"),
				Mods:   RequestModifiers{WithUserCred(PrimaryUser)},
			}.Do())
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			By("Reading the feed")
			response = ExpectSuccess(RequestFactory{
				Method: "GET",
				Target: ServerEndpoint("/feed"),
				Mods:   RequestModifiers{WithUserCred(PrimaryUser)},
			}.Do())
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			feed := DecodeJSON[[]struct {
				OwnerID string `json:"owner_id"`
				Content string `json:"content"`
			}](response.Body)

			Expect(feed).To(HaveLen(1))
			Expect(feed[0].OwnerID).To(Equal(OtherUser.ID))
			Expect(feed[0].Content).To(Equal("other user's workout log"))
		})
	})

	Describe("A login with the wrong password", func() {
		It("answers with a decodable error payload", func() {
			response := ExpectSuccess(RequestFactory{
				Method: "POST",
				Target: ServerEndpoint("/login"),
				JSONObj: map[string]string{
					"username": PrimaryUser.Username,
					"password": "not-the-password",
				},
			}.Do())
			Expect(response.StatusCode).To(Equal(http.StatusUnauthorized))

			apiError := DecodeJSONError(response.Body)
			Expect(apiError.Code).To(Equal("wrong_credentials"))
			Expect(apiError.Msg).NotTo(BeEmpty())
		})
	})
})
