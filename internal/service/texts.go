package service

import (
	"fmt"
	"strings"
)

const (
	IdentityReply = "My name is TerraBot! I'm a chat assistant that helps you find activities accessible by public transit. How can I assist you today?"

	ChatFailureReply = "Sorry, I had trouble coming up with a reply. Please try again later."

	ClearedReply = "🧹 I've cleared our conversation history. What would you like to talk about now?"

	ActivitiesUsage = "Please specify a location. For example: !activities New York City"

	GeneralCaveat = "*Note: Transit data may be limited. These are general recommendations based on popular places in the area.*"

	HelpText = `🚆 Transit Activity Recommendation Bot
Get recommendations for things to do that are accessible by public transit!

How to use:
1. Ask naturally:
- "What can I do in Seattle?"
- "Recommend activities near Chicago"
- "What should I explore in Boston?"

2. Use the command:
!activities [location]
Example: !activities New York City

Tips:
• Be specific with your location
• The recommendations are based on public transit availability
• Results include current weather and seasonal considerations

Available Commands:
!activities [location] - Get activity recommendations
!helpme - Display this help message
!clear - Clear your conversation history
!bookmark [location] - Save a location
!bookmarks - List saved locations
!unbookmark [label] - Delete a saved location
!unbookmarkall - Delete all saved locations`
)

func locationNotFoundReply(location string) string {
	return fmt.Sprintf("Sorry, I couldn't find the location '%s'. Please try a different location.", location)
}

func originNotFoundReply(location string) string {
	return fmt.Sprintf("Sorry, I couldn't find your starting location '%s'. Please try a different location.", location)
}

func generationFailedReply(location string) string {
	return fmt.Sprintf("I had trouble generating recommendations for %s. Please try again later.", location)
}

func title(category, location string) string {
	if category == "" {
		return fmt.Sprintf("**Activities near %s accessible by public transit:**", location)
	}
	return fmt.Sprintf("**%s options near %s accessible by public transit:**", titleCase(category), location)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
