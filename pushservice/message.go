package pushservice

import (
	"firebase.google.com/go/v4/messaging"

	"github.com/cartloop/go-push-service/pkg/notification"
)

const defaultSound = "default"

// androidPriority maps our binary priority onto FCM's android channel.
func androidPriority(p notification.Priority) string {
	if p == notification.PriorityHigh {
		return "high"
	}
	return "normal"
}

func payloadSound(p notification.Payload) string {
	if p.Sound != "" {
		return p.Sound
	}
	return defaultSound
}

// buildTokenMessage shapes a payload into the provider message for a single
// device. Pure function, no I/O.
//
// Device messages duplicate the image URL into the per-platform option
// blocks (AndroidNotification.ImageURL, APNSFCMOptions.ImageURL) on top of
// the shared Notification block; the provider contract expects exactly
// this duplication for per-device delivery.
func buildTokenMessage(token string, p notification.Payload) *messaging.Message {
	msg := &messaging.Message{
		Token: token,
		Data:  p.Data,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: androidPriority(p.Priority),
			Notification: &messaging.AndroidNotification{
				Sound:       payloadSound(p),
				ClickAction: p.ClickAction,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: payloadSound(p),
					Badge: p.Badge,
				},
			},
		},
	}

	if p.ImageURL != "" {
		msg.Notification.ImageURL = p.ImageURL
		msg.Android.Notification.ImageURL = p.ImageURL
		msg.APNS.FCMOptions = &messaging.APNSFCMOptions{ImageURL: p.ImageURL}
	}

	return msg
}

// buildTopicMessage shapes a payload into the provider message for a topic.
// Topic messages omit the badge and click action (there is no single
// recipient to route for) and skip the per-platform image duplication;
// subscribers that need a deep link read it from Data.
func buildTopicMessage(topic string, p notification.Payload) *messaging.Message {
	msg := &messaging.Message{
		Topic: topic,
		Data:  p.Data,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: androidPriority(p.Priority),
			Notification: &messaging.AndroidNotification{
				Sound: payloadSound(p),
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: payloadSound(p),
				},
			},
		},
	}

	if p.ImageURL != "" {
		msg.Notification.ImageURL = p.ImageURL
	}

	return msg
}
