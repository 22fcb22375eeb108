package mediasvc

import (
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/service/cloudfront/sign"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
)

const videoAccessExpiry = 6 * time.Hour

type (
	// VideoAuthorizer issues short-lived credentials granting access to the
	// CDN's video paths.
	VideoAuthorizer interface {
		AuthorizeVideos() ([]*http.Cookie, error)
	}

	cloudFrontAuthorizer struct {
		signer  *sign.CookieSigner
		cdnBase string
	}
)

var _ VideoAuthorizer = (*cloudFrontAuthorizer)(nil)

func NewCloudFrontAuthorizer(conf *core.Config) (VideoAuthorizer, error) {
	privKey, err := sign.LoadPEMPrivKey(strings.NewReader(conf.AWS.CloudFrontPrivateKey))
	if err != nil {
		return nil, errors.Wrap(err, "loading CloudFront key")
	}
	return &cloudFrontAuthorizer{
		signer:  sign.NewCookieSigner(conf.AWS.CloudFrontKeyID, privKey),
		cdnBase: strings.TrimRight(conf.AWS.CDNBaseURL, "/"),
	}, nil
}

// AuthorizeVideos signs a custom policy covering every object under /videos/,
// valid for six hours.
func (a *cloudFrontAuthorizer) AuthorizeVideos() ([]*http.Cookie, error) {
	policy := sign.NewCannedPolicy(a.cdnBase+"/videos/*", time.Now().Add(videoAccessExpiry))
	cookies, err := a.signer.SignWithPolicy(policy)
	if err != nil {
		return nil, errors.Wrap(err, "signing video policy")
	}
	return cookies, nil
}
