package catalog

import "github.com/poiesic/udmine/core"

func text(p core.Provider, key, label string) core.Category {
	return core.Category{Key: key, Label: label, Provider: p, Kind: core.KindText}
}

func structured(p core.Provider, key, label, source, measure string) core.Category {
	return core.Category{Key: key, Label: label, Provider: p, Kind: core.KindStructured, Source: source, Measure: measure}
}

var defaultCategories = []core.Category{
	text(core.ProviderGoogle, "activities", "Activities"),
	text(core.ProviderGoogle, "apps", "Apps"),
	text(core.ProviderGoogle, "autofill", "Autofill"),
	text(core.ProviderGoogle, "browser_history", "Browser history"),
	text(core.ProviderGoogle, "hangouts", "Hangouts"),
	text(core.ProviderGoogle, "chat", "Google Chat"),
	text(core.ProviderGoogle, "pay", "Google Pay Transactions"),
	text(core.ProviderGoogle, "maps_nearby", "Maps nearby places"),
	text(core.ProviderGoogle, "maps_places", "Maps places"),
	text(core.ProviderGoogle, "mail", "Email"),
	text(core.ProviderGoogle, "movies", "Movies"),
	text(core.ProviderGoogle, "yt_comments", "YouTube comments"),
	text(core.ProviderGoogle, "yt_subscriptions", "YouTube subscriptions"),
	text(core.ProviderGoogle, "yt_liked", "YouTube liked videos"),
	text(core.ProviderGoogle, "yt_history", "YouTube watch history"),
	structured(core.ProviderGoogle, "fit_distance", "Fit distance", "fit", "distance"),
	structured(core.ProviderGoogle, "fit_calories", "Fit calories", "fit", "calories"),
	structured(core.ProviderGoogle, "travel", "Monthly travel estimate", "travel", "distance"),

	text(core.ProviderInstagram, "insta_ads", "Insta Advertisements Data"),
	text(core.ProviderInstagram, "insta_music", "Insta Music heard"),
	text(core.ProviderInstagram, "insta_videos", "Insta Videos watched"),
	text(core.ProviderInstagram, "insta_ads_interest", "Insta Interests"),
	text(core.ProviderInstagram, "insta_topics", "Insta Topics"),
	text(core.ProviderInstagram, "insta_reels_topics", "Insta Reels Topics"),
	text(core.ProviderInstagram, "insta_reels_sentiments", "Insta Reels Sentiments"),
	text(core.ProviderInstagram, "insta_saved_posts", "Insta Posts Saved"),
	text(core.ProviderInstagram, "insta_account_searches", "Insta Account Searches"),
	text(core.ProviderInstagram, "insta_memo_data", "Insta Memo Data"),
	text(core.ProviderInstagram, "insta_liked_comments", "Insta Liked Comments"),
	text(core.ProviderInstagram, "insta_liked_posts", "Insta Liked Posts"),
	text(core.ProviderInstagram, "insta_post_comments", "Insta Post Comments"),
	text(core.ProviderInstagram, "insta_info_submitted", "Insta Information Submitted"),
	text(core.ProviderInstagram, "insta_posts_viewed", "Insta Posts viewed"),
	text(core.ProviderInstagram, "insta_accounts_viewed", "Insta Accounts Viewed"),
	text(core.ProviderInstagram, "insta_accounts_based", "Insta Accounts based"),
	text(core.ProviderInstagram, "insta_comments_data", "Insta Comments"),
	text(core.ProviderInstagram, "insta_cross_app", "Insta Cross App Data"),
	text(core.ProviderInstagram, "insta_emojis", "Insta Emojis"),
	text(core.ProviderInstagram, "insta_polls", "Insta Polls"),
	text(core.ProviderInstagram, "insta_quizzes", "Insta Quizzes"),
	text(core.ProviderInstagram, "insta_archived_posts", "Insta Archived Posts"),
	text(core.ProviderInstagram, "insta_stories", "Insta Stories"),
	text(core.ProviderInstagram, "insta_followers", "Insta Followers"),
	text(core.ProviderInstagram, "insta_following", "Insta Following"),
	text(core.ProviderInstagram, "insta_hide_story", "Insta Hided story"),
	text(core.ProviderInstagram, "insta_messages", "Insta Messages"),

	text(core.ProviderFacebook, "fb_ads", "FB Advertisements"),
	text(core.ProviderFacebook, "fb_apps", "FB Apps"),
	text(core.ProviderFacebook, "fb_posts_apps", "FB Posts Apps"),
	text(core.ProviderFacebook, "fb_topics", "FB Topics"),
	text(core.ProviderFacebook, "fb_comments", "FB Comments"),
	text(core.ProviderFacebook, "fb_reactions", "FB Reactions"),
	text(core.ProviderFacebook, "fb_search_history", "FB Search History"),
	text(core.ProviderFacebook, "fb_saved_posts", "FB Saved posts"),
	text(core.ProviderFacebook, "fb_pages_you_follow", "FB Pages followed"),
	text(core.ProviderFacebook, "fb_ads_interest", "FB Ad interests"),
	text(core.ProviderFacebook, "fb_friend_peer_group", "FB Friend peer group"),
	text(core.ProviderFacebook, "fb_groups_comments", "FB Group comments"),
	text(core.ProviderFacebook, "fb_groups_membership", "FB Group membership"),
	text(core.ProviderFacebook, "fb_groups_posts", "FB Group posts"),
	text(core.ProviderFacebook, "fb_messages", "FB Messages"),
}

var defaultMerges = []Merge{
	{Key: "nearby_places", Label: "Nearby places", Left: "maps_nearby", Right: "maps_places"},
}

// Default returns the full category table for all supported providers.
func Default() *Catalog {
	c, err := New(defaultCategories, defaultMerges)
	if err != nil {
		panic("catalog: invalid default table: " + err.Error())
	}
	return c
}
