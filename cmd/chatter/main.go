package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chatterhq/chatter"
	"github.com/chatterhq/chatter/inmem"
	"github.com/sirupsen/logrus"
)

const defaultMatchThreshold = 0.5

// cli keeps the stores and the logged-in profile together; the current
// profile is explicit state, not a process-wide global.
type cli struct {
	profileStore *inmem.ProfileStore
	postStore    *inmem.PostStore
	feed         *chatter.FeedBuilder
	current      *chatter.Profile
}

func newCli() *cli {
	profileStore := inmem.NewProfileStore()
	postStore := inmem.NewPostStore()
	matcher, err := chatter.NewPercentMatcher(defaultMatchThreshold)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create matcher.")
	}
	feed, err := chatter.NewFeedBuilder(&postStore, &profileStore, matcher,
		func(chatter.Post) bool { return true })
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create feed builder.")
	}
	return &cli{
		profileStore: &profileStore,
		postStore:    &postStore,
		feed:         feed,
	}
}

func main() {
	c := newCli()
	printGreeting()

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !in.Scan() {
			break
		}
		line := parseCommand(in.Text())
		if len(line) == 0 {
			continue
		}

		switch strings.ToLower(line[0]) {
		case "login":
			c.login(ctx, line)
		case "set":
			c.setAttribute(ctx, line)
		case "post":
			c.post(ctx, line)
		case "feed":
			c.printFeed(ctx)
		default:
			fmt.Printf("Invalid command %q. Valid options are login, set, post, feed.\n", line[0])
		}
	}
}

func printGreeting() {
	fmt.Println("=======================================")
	fmt.Println("Welcome to the Chatter CLI!")
	fmt.Println("=======================================")
	fmt.Println("**Available commands (Group multi-word args with double quotes):")
	fmt.Println(">> login {username}")
	fmt.Println(">> set {attribute name} {attribute value}")
	fmt.Println(">> post {post content}")
	fmt.Println(">> feed")
	fmt.Println("=======================================")
	fmt.Println()
}

// login fetches the profile or creates it on first login.
func (c *cli) login(ctx context.Context, line []string) {
	if len(line) < 2 {
		fmt.Println("Usage: login {username}")
		return
	}
	userId := chatter.UserId(line[1])

	profile, err := c.profileStore.ById(ctx, userId)
	if err == chatter.ErrProfileNotFound {
		fmt.Printf("Creating new user %s.\n", userId)
		profile, err = chatter.NewProfile(userId, nil)
		if err == nil {
			err = c.profileStore.Write(ctx, profile)
		}
	}
	if err != nil {
		fmt.Printf("Login failed: %s.\n", err)
		return
	}

	c.current = &profile
	fmt.Printf("Logged in as %s.\n", userId)
}

func (c *cli) setAttribute(ctx context.Context, line []string) {
	if !c.isLoggedIn() {
		return
	}
	if len(line) < 3 {
		fmt.Println("Usage: set {attribute name} {attribute value}")
		return
	}
	name, value := line[1], line[2]

	if err := c.current.SetAttribute(name, value); err != nil {
		fmt.Printf("Could not set attribute: %s.\n", err)
		return
	}
	if err := c.profileStore.Write(ctx, *c.current); err != nil {
		fmt.Printf("Could not save profile: %s.\n", err)
		return
	}
	fmt.Printf("Set attribute %q to %q.\n", name, value)
}

func (c *cli) post(ctx context.Context, line []string) {
	if !c.isLoggedIn() {
		return
	}
	if len(line) < 2 {
		fmt.Println("Usage: post {post content}")
		return
	}
	content := line[1]

	post, err := chatter.NewPost(c.current.Id, content)
	if err == nil {
		err = c.postStore.Write(ctx, &post)
	}
	if err != nil {
		fmt.Printf("Could not create post: %s.\n", err)
		return
	}
	fmt.Printf("Created post %q.\n", content)
}

func (c *cli) printFeed(ctx context.Context) {
	if !c.isLoggedIn() {
		return
	}
	feed, err := c.feed.FeedFor(ctx, *c.current)
	if err != nil {
		fmt.Printf("Could not build feed: %s.\n", err)
		return
	}

	fmt.Printf("Feed for user %s:\n", c.current.Id)
	for _, post := range feed {
		fmt.Printf("\n\t%s >> %s\n", post.UserId, post.Content)
	}
}

func (c *cli) isLoggedIn() bool {
	if c.current == nil {
		fmt.Println("Please log in first.")
		return false
	}
	return true
}

// parseCommand splits the line into arguments, grouping double-quoted
// segments into single arguments.
func parseCommand(line string) []string {
	args := []string{}

	insideQuotes := false
	for _, segment := range strings.Split(line, `"`) {
		if insideQuotes {
			args = append(args, segment)
		} else {
			args = append(args, strings.Fields(segment)...)
		}
		insideQuotes = !insideQuotes
	}
	return args
}
